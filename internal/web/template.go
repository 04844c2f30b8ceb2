package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/goal-tracker/internal/logic"
	"github.com/sweeney/goal-tracker/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		switch {
		case days > 0:
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		case h > 0:
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		case m > 0:
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"deficit": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"behind": func(v float64) bool {
		return v > logic.Epsilon
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Goal Tracker</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.lcd { background: #c8d4a8; color: #222; padding: 0.6em 1em; border: 2px solid #444; display: inline-block; min-width: 12em; }
.behind { color: #c00; font-weight: bold; }
.ontrack { color: green; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Goal Tracker</h1>

<div class="lcd" id="lcd">
<div id="lcd-top">{{.Render.Top}}</div>
<div id="lcd-main">{{if .Render.Main}}{{.Render.Main}}{{else if .Render.ShowTime}}{{.Now.Format "15:04:05"}}{{end}}</div>
</div>

<h2>Face</h2>
<table>
<tr><th>Mode</th><td id="mode">{{.Face.Mode}}</td></tr>
{{range .Controls}}<tr><th>{{.Name}}</th><td>{{.Tally}} / goal {{.Goal}} <span class="{{if behind .Deficit}}behind{{else}}ontrack{{end}}">(behind {{deficit .Deficit}})</span></td></tr>
{{end}}<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Increment</th><td>{{.Counts.Increments}}</td></tr>
<tr><th>Reset</th><td>{{.Counts.Resets}}</td></tr>
<tr><th>Gesture</th><td>{{.Counts.Gestures}}</td></tr>
<tr><th>Mode</th><td>{{.Counts.Modes}}</td></tr>
<tr><th>Goal</th><td>{{.Counts.Goals}}</td></tr>
<tr><th>Leave</th><td>{{.Counts.Leaves}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Store</th><td>{{.Config.Store}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

type controlRow struct {
	Name    string
	Tally   uint16
	Goal    uint16
	Deficit float64
}

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime   time.Duration
		Controls []controlRow
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	for i, c := range []logic.Control{logic.ControlA, logic.ControlB} {
		data.Controls = append(data.Controls, controlRow{
			Name:    "Tally " + c.String(),
			Tally:   snap.Face.Tallies[i].Value,
			Goal:    snap.Face.Goals[i].Value,
			Deficit: snap.Face.Deficits[i],
		})
	}
	return indexTmpl.Execute(w, data)
}
