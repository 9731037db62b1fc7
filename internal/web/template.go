package web

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bitsplusatoms/multibutton/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"pins": func(pins []int) string {
		parts := make([]string, len(pins))
		for i, p := range pins {
			parts[i] = strconv.Itoa(p)
		}
		return strings.Join(parts, ", ")
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Multi-Button</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; }
.failed { color: red; font-weight: bold; }
.idle { color: #888; }
.accumulating { color: orange; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
.setup { color: orange; }
</style>
</head>
<body>
<h1>Multi-Button {{.DeviceID}}</h1>

<h2>Buttons</h2>
<table>
<tr><th>Button</th><th>Last gesture</th><th>Events</th><th>Rejected</th></tr>
{{range .Units}}<tr>
<td class="{{if .Operative}}ok{{else}}failed{{end}}">{{.Name}}{{if not .Operative}} (failed){{end}}</td>
<td>{{if gt .Events 0}}{{.LastGesture}} at {{.LastAt.UTC.Format "15:04:05"}}{{else}}never{{end}}</td>
<td>{{.Events}}</td>
<td>{{.Rejected}}</td>
</tr>{{end}}
</table>

<h2>Factory Reset</h2>
<table>
<tr><th>State</th><td class="{{.Guard.State}}">{{.Guard.State}}</td></tr>
<tr><th>Counter</th><td>{{.Guard.Count}} of {{.Guard.Threshold}}</td></tr>
<tr><th>Trigger</th><td>{{.Config.ResetTrigger}} press</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Base topic</th><td>{{.Config.BaseTopic}}</td></tr>
<tr><th>Network</th><td class="{{.Provisioning.State}}">{{.Provisioning.State}}{{if .Provisioning.SSID}} ({{.Provisioning.SSID}}){{end}}</td></tr>
{{if .Provisioning.IP}}<tr><th>IP</th><td>{{.Provisioning.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Pins</th><td>{{pins .Config.Pins}}</td></tr>
<tr><th>Long press</th><td>{{.Config.LongPressMs}}ms</td></tr>
<tr><th>Gap</th><td>{{.Config.GapMs}}ms</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> <a href="/metrics">Metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
