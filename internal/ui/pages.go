package ui

import (
	"fmt"
	"html/template"
	"strings"
)

// shellTemplate is the page shell. Sections are rendered server-side on
// load via the /panel SSE endpoint and morphed in place on every update.
const shellTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>AskLens</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="stylesheet" href="https://fonts.googleapis.com/css2?family=Material+Symbols+Outlined">
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; padding: 1rem 2rem; color: #1a1a2e; }
.pill-row { display: flex; flex-wrap: wrap; gap: .5rem; }
.pill { display: inline-flex; align-items: center; gap: .25rem; padding: .25rem .75rem;
        border-radius: 999px; background: #eef1f8; font-size: .85rem; cursor: default; }
.pill .material-symbols-outlined { font-size: 1rem; }
.pill.empty-state { background: none; color: #8a8fa3; font-style: italic; }
.about-section h3 { margin: .75rem 0 .25rem; font-size: .8rem; text-transform: uppercase; color: #5a5f73; }
.result-table { border-collapse: collapse; margin-top: 1rem; }
.result-table th, .result-table td { border: 1px solid #d8dce8; padding: .35rem .6rem; font-size: .9rem; }
#prompt-form { display: flex; gap: .5rem; margin: 1rem 0; }
#prompt-form input[type=text] { flex: 1; padding: .5rem .75rem; }
</style>
</head>
<body data-signals="{prompt: {{.InitialQuery}}, locationEnabled: {{.LocationEnabled}}}"
      data-on-load="@get('/panel'); $prompt && @post('/query')">
<h1>AskLens</h1>
<form id="prompt-form" data-on-submit="@post('/query'); evt.preventDefault()">
  <input type="text" name="prompt" data-bind-prompt placeholder="Ask a question about the data...">
  <button type="submit">Ask</button>
  <label>
    <input type="checkbox" data-bind-location-enabled
           data-on-change="@post('/preferences/location')"> Use my location
  </label>
</form>
<div id="result-area"></div>
<aside id="about-data">
  <h2>About Data</h2>
  <div id="about-period"></div>
  <div id="about-attributes"></div>
  <div id="about-measures"></div>
  <div id="about-filters"></div>
</aside>
<div data-on-load="@get('/updates')"></div>
</body>
</html>`

// renderShell fills the page shell. initialQuery and the location flag
// are injected as datastar signal values, so both must be JS literals.
func renderShell(initialQuery string, locationEnabled bool) string {
	page := strings.ReplaceAll(shellTemplate, "{{.InitialQuery}}", jsString(initialQuery))
	page = strings.ReplaceAll(page, "{{.LocationEnabled}}", fmt.Sprintf("%t", locationEnabled))
	return page
}

func jsString(s string) string {
	escaped := template.JSEscapeString(s)
	// JSEscape writes a double quote as \" which still holds a raw quote;
	// inside the double-quoted data-signals attribute that would end the
	// attribute early. " is the same character with no quote byte.
	escaped = strings.ReplaceAll(escaped, `\"`, `"`)
	return "'" + escaped + "'"
}
