package dashboard

import (
	"fmt"
	"html/template"
)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("£%.2f", v) },
	"num":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(pageHTML))

type pageData struct {
	View      View
	Modes     []SortMode
	Average   float64
	Charts    svgCharts
	Error     string
	HasRating bool
}

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Books Dashboard</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 260px; padding: 20px; background: #f0f2f6; min-height: 100vh; }
main { flex: 1; padding: 20px 40px; }
h1 { text-align: center; color: darkgray; }
.kpis { display: flex; gap: 10px; }
.box { flex: 1; background-color: #FF4B4B; color: white; padding: 10px; border-radius: 10px; height: 200px; overflow: hidden; text-align: center; }
.box h3 { font-size: 20px; }
.box h1 { font-size: 30px; color: white; }
table { border-collapse: collapse; width: 100%; }
th, td { border-bottom: 1px solid #ddd; padding: 4px 8px; text-align: left; }
.charts { display: flex; flex-wrap: wrap; gap: 20px; }
.empty { color: #888; font-style: italic; }
</style>
</head>
<body>
<aside>
<h2>Sorting and Filtering Options</h2>
<form method="get" action="/">
<label>Sort by:<br>
<select name="sort">
{{range .Modes}}<option value="{{.}}"{{if eq . $.View.Sort}} selected{{end}}>{{.Label}}</option>
{{end}}</select></label>
{{if not .View.Empty}}
<p>Price range<br>
<input type="number" name="min" step="0.01" min="{{num .View.Bounds.Min}}" max="{{num .View.Bounds.Max}}" value="{{num .View.Selected.Min}}">
&ndash;
<input type="number" name="max" step="0.01" min="{{num .View.Bounds.Min}}" max="{{num .View.Bounds.Max}}" value="{{num .View.Selected.Max}}">
</p>
{{end}}
<button type="submit">Apply</button>
</form>
<p>Total results: {{.View.Results}}</p>
</aside>
<main>
<h1>Books Dashboard</h1>
{{if .Error}}<p class="empty">{{.Error}}</p>{{end}}
<div class="kpis">
<div class="box"><h3>Total Number of Books</h3><h1>{{.View.Summary.Total}}</h1></div>
<div class="box"><h3>Average Book Price</h3><h1>{{if .View.Summary.Empty}}No data{{else}}{{money .Average}}{{end}}</h1></div>
<div class="box"><h3>Most Expensive Book</h3><h1>{{if .View.Summary.Empty}}No data{{else}}{{.View.Summary.MostExpensiveTitle}}{{end}}</h1></div>
</div>
<hr>
<h2>Sorted and Filtered Books Data</h2>
{{if .View.Empty}}<p class="empty">No data</p>{{else}}
<table>
<tr><th>Title</th><th>Rating</th><th>Price</th><th>Availability</th></tr>
{{range .View.Rows}}<tr><td>{{.Title}}</td><td>{{.Rating}}</td><td>{{num .Price}}</td><td>{{.Availability}}</td></tr>
{{end}}</table>
{{end}}
<hr>
<div class="charts">
<div>
<h3>Histogram for Price</h3>
{{if .Charts.Histogram}}
<svg width="{{.Charts.Width}}" height="{{.Charts.Height}}">
{{range .Charts.Histogram}}<rect x="{{num .X}}" y="{{num .Y}}" width="{{num .W}}" height="{{num .H}}" fill="blue" fill-opacity="0.7"><title>{{.Count}}</title></rect>
<text x="{{num .X}}" y="{{num $.Charts.BaseY}}" dy="14" font-size="10">{{.Label}}</text>
{{end}}</svg>
{{else}}<p class="empty">No data</p>{{end}}
</div>
<div>
<h3>Pie Chart for Ratings</h3>
{{if .HasRating}}
<svg width="{{.Charts.Width}}" height="{{.Charts.Height}}">
{{range .Charts.Ratings}}{{if .Full}}<circle cx="{{num $.Charts.PieCX}}" cy="{{num $.Charts.PieCY}}" r="{{num $.Charts.PieRadius}}" fill="{{.Fill}}"></circle>{{else}}<path d="{{.Path}}" fill="{{.Fill}}"></path>{{end}}
<text x="{{num .LabelX}}" y="{{num .LabelY}}" font-size="11" text-anchor="middle">{{.Rating}}: {{.Label}}</text>
{{end}}</svg>
{{else}}<p class="empty">No data</p>{{end}}
</div>
<div>
<h3>Bar Chart for Book Availability</h3>
{{if .View.Empty}}<p class="empty">No data</p>{{else}}
<svg width="{{.Charts.Width}}" height="{{.Charts.Height}}">
{{range .Charts.Availability}}<rect x="{{num .X}}" y="{{num .Y}}" width="{{num .W}}" height="{{num .H}}" fill="green" fill-opacity="0.7"><title>{{.Count}}</title></rect>
<text x="{{num .X}}" y="{{num $.Charts.BaseY}}" dy="14" font-size="11">{{.Label}} ({{.Count}})</text>
{{end}}</svg>
{{end}}
</div>
</div>
</main>
</body>
</html>
`
