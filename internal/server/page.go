package server

import "html/template"

type pageRow struct {
	Index int
	Time  string
	Value string
}

type pageData struct {
	Chart   template.HTML
	LogAxis bool
	Input   string
	Rows    []pageRow
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Line chart</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; height: 100vh; }
#chart { flex: 1; min-width: 0; }
#chart svg { width: 100%; height: 100%; display: block; }
aside { width: 260px; padding: 12px; border-left: 1px solid #ddd; overflow-y: auto; }
aside ul { list-style: none; padding: 0; }
aside li { display: flex; justify-content: space-between; margin: 4px 0; }
</style>
</head>
<body>
<div id="chart">{{.Chart}}</div>
<aside>
<form method="post" action="/log-axis">
<label><input type="checkbox" name="enabled" onchange="this.form.submit()"{{if .LogAxis}} checked{{end}}> Log axis</label>
<noscript><button type="submit">Apply</button></noscript>
</form>
<form method="post" action="/values">
<input type="number" step="any" name="value" value="{{.Input}}">
<button type="submit">Add</button>
</form>
<ul>
{{range .Rows}}<li><span>{{.Time}}</span><span>{{.Value}}</span>
<form method="post" action="/values/{{.Index}}/remove"><button type="submit">Remove</button></form></li>
{{end}}</ul>
</aside>
<script>
(function () {
  var box = document.getElementById("chart");
  var pending = false;
  function redraw() {
    pending = false;
    var w = box.clientWidth, h = box.clientHeight;
    fetch("/api/resize", {method: "POST", headers: {"Content-Type": "application/json"},
      body: JSON.stringify({width: w, height: h})});
    fetch("/chart.svg?width=" + w + "&height=" + h)
      .then(function (r) { return r.text(); })
      .then(function (svg) { box.innerHTML = svg; });
  }
  function schedule() {
    if (!pending) { pending = true; requestAnimationFrame(redraw); }
  }
  if (window.ResizeObserver) { new ResizeObserver(schedule).observe(box); } else { window.addEventListener("resize", schedule); }
  schedule();
})();
</script>
</body>
</html>
`))
