package web

// ── Base layout ───────────────────────────────────────────────────────────────

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.UI.Page.Title}}</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,-apple-system,'Noto Sans KR',sans-serif;background:#0d1117;color:#c9d1d9;font-size:13px;line-height:1.5}
main{padding:16px;max-width:1280px;margin:0 auto}
h1{font-size:16px;font-weight:700;color:#f0f6fc;margin-bottom:12px}
h2{font-size:12px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:0 0 8px}
.search{display:flex;gap:8px;margin-bottom:16px}
.search input{flex:1;background:#161b22;border:1px solid #30363d;color:#c9d1d9;border-radius:4px;padding:6px 10px;font-size:14px;font-family:inherit}
.search button,.toggle{background:#1f6feb;border:none;color:#fff;padding:6px 14px;border-radius:4px;cursor:pointer;font-size:13px}
.columns{display:grid;grid-template-columns:1fr 1fr;gap:16px}
@media(max-width:900px){.columns{grid-template-columns:1fr}}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:10px 12px;margin-bottom:12px}
.card video{width:100%;border-radius:4px;background:#000;margin:6px 0}
.tag{display:inline-block;padding:1px 6px;border-radius:4px;font-size:11px;background:#21262d;color:#8b949e;border:1px solid #30363d;margin-right:4px}
.summary{font-size:12px;color:#c9d1d9;margin-top:4px}
.dim{color:#8b949e}
.err{color:#f87171}
.empty{color:#8b949e;padding:12px 0}
.stats{margin-top:8px;border-top:1px solid #21262d;padding-top:8px;display:grid;gap:8px}
.stat .lbl{font-size:11px;color:#8b949e}
.bar-row{display:flex;align-items:center;gap:6px;font-size:11px}
.bar-row .name{min-width:110px;color:#8b949e}
.bar-wrap{flex:1;background:#21262d;border-radius:3px;height:8px}
.bar{background:#1f6feb;border-radius:3px;height:8px;display:block}
.bar.b{background:#a78bfa}
.ring{display:flex;align-items:center;gap:8px}
</style>
</head>
<body>
<main>
{{template "content" .}}
</main>
</body>
</html>{{end}}
`

// ── Search page ───────────────────────────────────────────────────────────────

const tmplSearch = `
{{define "content"}}
<h1>{{.UI.Page.Title}}</h1>
<form class="search" method="post" action="/search">
  <input type="text" name="q" value="{{.Query}}" placeholder="{{.UI.Page.Placeholder}}" autofocus>
  <button type="submit">{{.UI.Labels.Search}}</button>
</form>
<div class="columns">
  <section>
    <h2>{{.UI.Labels.TextColumn}}</h2>
    {{range .Text}}{{template "card" .}}{{else}}<div class="empty">{{$.UI.Labels.NoResults}}</div>{{end}}
  </section>
  <section>
    <h2>{{.UI.Labels.ImageColumn}}</h2>
    {{range .Image}}{{template "card" .}}{{else}}<div class="empty">{{$.UI.Labels.NoResults}}</div>{{end}}
  </section>
</div>
<script>
document.querySelectorAll('video[data-key]').forEach(function (v) {
  var p = v.play();
  if (p && p.catch) {
    p.catch(function (e) { console.warn('autoplay rejected', v.dataset.key, e); });
  }
});
</script>
{{end}}

{{define "card"}}
<div class="card" id="{{.Anchor}}">
  <div>
    <span class="tag">session {{.Result.SessionID}}</span>
    <span class="tag">camera {{.Result.CameraID}}</span>
    {{if .Score}}<span class="tag">score {{.Score}}</span>{{end}}
  </div>
  {{if .Result.VideoSummary}}<div class="summary">{{.Result.VideoSummary}}</div>{{end}}
  {{if .Result.VideoURL}}
  <video data-key="{{.Result.VideoURL}}" src="{{.Result.VideoURL}}" autoplay muted loop playsinline preload="metadata"></video>
  {{end}}
  <form method="post" action="/stats/{{pathEscape .Result.SessionID}}/toggle">
    <input type="hidden" name="anchor" value="{{.Anchor}}">
    <button class="toggle" type="submit">{{if .Entry.Open}}{{.UI.Labels.HideStats}}{{else}}{{.UI.Labels.ShowStats}}{{end}}</button>
  </form>
  {{if .Entry.Loading}}<div class="dim">{{.UI.Labels.Loading}}</div>{{end}}
  {{if .Entry.Error}}<div class="err">{{.Entry.Error}}</div>{{end}}
  {{with .Panel}}{{template "stats" $}}{{end}}
</div>
{{end}}

{{define "stats"}}
<div class="stats">
{{if not .Panel.Found}}
  <div class="dim no-stats">{{.UI.Labels.NoStats}}</div>
{{else}}
  <div class="stat latency">
    <div class="lbl">{{.UI.Labels.Latency}}</div>
    <div class="bar-row"><span class="name">{{.UI.Labels.ActionPrev}}</span><span class="bar-wrap"><span class="bar" style="width:{{pct .Panel.Latency.Bars.A.Width}}%"></span></span><span>{{.Panel.Latency.ActionText}}</span></div>
    <div class="bar-row"><span class="name">{{.UI.Labels.ObsPrev}}</span><span class="bar-wrap"><span class="bar b" style="width:{{pct .Panel.Latency.Bars.B.Width}}%"></span></span><span>{{.Panel.Latency.ObserveText}}</span></div>
  </div>
  <div class="stat command">
    <div class="lbl">{{.UI.Labels.CommandRate}}</div>
    {{with .Panel.Command.Ring}}
    <div class="ring">
      <svg width="{{num .Size}}" height="{{num .Size}}" viewBox="0 0 {{num .Size}} {{num .Size}}">
        <circle cx="{{num .Center}}" cy="{{num .Center}}" r="{{num .Radius}}" fill="none" stroke="#21262d" stroke-width="{{num .Stroke}}"/>
        <circle cx="{{num .Center}}" cy="{{num .Center}}" r="{{num .Radius}}" fill="none" stroke="#56d364" stroke-width="{{num .Stroke}}" stroke-dasharray="{{num .Dash}} {{num .Gap}}" transform="rotate(-90 {{num .Center}} {{num .Center}})"/>
      </svg>
      <span>{{$.Panel.Command.Text}}</span>
    </div>
    {{end}}
  </div>
  {{template "errorbar" dict "Label" .UI.Labels.TrackingError "Panel" .Panel.Tracking}}
  {{template "errorbar" dict "Label" .UI.Labels.JointVelocity "Panel" .Panel.Joint}}
{{end}}
</div>
{{end}}

{{define "errorbar"}}
<div class="stat errorbar">
  <div class="lbl">{{.Label}}</div>
  {{with .Panel.Bar}}
  <svg width="{{num .Width}}" height="16" viewBox="0 0 {{num .Width}} 16">
    <line x1="0" y1="8" x2="{{num .Width}}" y2="8" stroke="#30363d" stroke-width="1"/>
    <line x1="{{num .Mid}}" y1="3" x2="{{num .Mid}}" y2="13" stroke="#8b949e" stroke-width="1"/>
    {{if not .Empty}}
    <line x1="{{num .Lo}}" y1="8" x2="{{num .Hi}}" y2="8" stroke="#f59e0b" stroke-width="3"/>
    <circle cx="{{num .Point}}" cy="8" r="3" fill="#f0f6fc"/>
    {{end}}
  </svg>
  {{end}}
  <span>{{.Panel.Text}}</span>
</div>
{{end}}
`
