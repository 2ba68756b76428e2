package httpapi

import (
	"html/template"
	"net/http"

	"loadtracker/internal/domain/cycle"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="apple-mobile-web-app-capable" content="yes">
<title>LoadTracker</title>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; }
  .app-container { min-height: 100vh; display: flex; flex-direction: column; align-items: center; justify-content: center; color: #fff; }
  .load { background: #c0392b; }
  .deload { background: #2980b9; }
  h1 { font-size: 4rem; margin: 0 0 .25rem; }
  .week { opacity: .8; margin-bottom: 2rem; }
  .button-group { display: flex; gap: 1rem; }
  .action-button { padding: .75rem 1.25rem; border: 2px solid #fff; border-radius: .5rem; background: transparent; color: #fff; font-size: 1rem; }
  .ios-prompt { position: fixed; bottom: 1rem; left: 1rem; right: 1rem; padding: 1rem; border-radius: .5rem; background: rgba(0,0,0,.6); text-align: center; }
</style>
</head>
<body>
<div class="app-container {{if .IsDeload}}deload{{else}}load{{end}}">
  <main class="content">
    <h1>{{.DisplayName}}</h1>
    <div class="week">ISO week {{.ISOWeek}}, {{.ISOYear}}</div>
  </main>
  {{if .AppID}}
  <div class="button-group">
    <button class="action-button" id="enable-push">Enable Push</button>
    <button class="action-button" id="toggle-pause">Pause Notifications</button>
  </div>
  {{end}}
  <div class="ios-prompt" id="ios-prompt" hidden>
    <p>Tap Share and then<br><strong>Add to Home Screen</strong><br>to install LoadTracker and enable notifications.</p>
  </div>
</div>
<script>
  (function () {
    var ua = window.navigator.userAgent.toLowerCase();
    if (/iphone|ipad|ipod/.test(ua) && !window.navigator.standalone) {
      document.getElementById("ios-prompt").hidden = false;
    }
  })();
</script>
{{if .AppID}}
<script src="https://cdn.onesignal.com/sdks/web/v16/OneSignalSDK.page.js" defer></script>
<script>
  var pausedTag = {{.PausedTag}};
  var storageKey = "loadtracker_paused";
  var paused = localStorage.getItem(storageKey) === "true";
  var toggle = document.getElementById("toggle-pause");
  function render() { toggle.textContent = (paused ? "Resume" : "Pause") + " Notifications"; }
  render();

  window.OneSignalDeferred = window.OneSignalDeferred || [];
  OneSignalDeferred.push(async function (OneSignal) {
    try {
      await OneSignal.init({ appId: {{.AppID}}, allowLocalhostAsSecureOrigin: true, notifyButton: { enable: false } });
      OneSignal.User.addTag(pausedTag, paused ? "true" : "false");
    } catch (e) {
      console.error("OneSignal init error", e);
    }

    document.getElementById("enable-push").addEventListener("click", async function () {
      try {
        await OneSignal.Notifications.requestPermission();
      } catch (e) {
        OneSignal.Slidedown.promptPushCategories({ force: true });
      }
    });

    toggle.addEventListener("click", function () {
      paused = !paused;
      localStorage.setItem(storageKey, String(paused));
      render();
      try {
        OneSignal.User.addTag(pausedTag, String(paused));
      } catch (e) {
        console.error("Failed to update tag", e);
      }
    });
  });
</script>
{{end}}
</body>
</html>
`))

type pageData struct {
	DisplayName string
	IsDeload    bool
	ISOWeek     int
	ISOYear     int
	AppID       string
	PausedTag   string
}

// Page handles GET / with the phase of the current week.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	reminder, err := cycle.ForDate(h.now().In(h.opts.Location))
	if err != nil {
		h.logger.WithError(err).Error("failed to compute phase for page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := pageData{
		DisplayName: reminder.Phase.DisplayName(),
		IsDeload:    reminder.Phase == cycle.PhaseDeload,
		ISOWeek:     reminder.ISOWeek,
		ISOYear:     reminder.ISOYear,
		AppID:       h.opts.OneSignalAppID,
		PausedTag:   h.opts.PausedTag,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.WithError(err).Error("failed to render page")
	}
}
