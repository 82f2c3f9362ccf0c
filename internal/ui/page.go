package ui

const (
	WifiListPlaceholder = "{{WIFI_LIST}}"
	SSIDPlaceholder     = "{{SSID}}"

	// CountdownSeconds is how long the confirmation page counts down before
	// the machine restarts. countdownText must spell the same number.
	CountdownSeconds = 15
	countdownText    = "15"
)

const style = `
  <style>
    html, body { height: 100%; margin: 0; }
    body {
      font-family: Arial, sans-serif;
      background: linear-gradient(135deg, #0d9488 0%, #06b6d4 50%, #3b82f6 100%);
      color: #ffffff;
      min-height: 100vh;
    }
    .wrapper { height: 100%; display: flex; align-items: center; justify-content: center; padding: 20px; box-sizing: border-box; }
    .card {
      width: 100%;
      max-width: 360px;
      background: rgba(255, 255, 255, 0.15);
      backdrop-filter: blur(10px);
      border: 1px solid rgba(255, 255, 255, 0.2);
      border-radius: 20px;
      padding: 36px;
      box-shadow: 0 20px 40px rgba(0, 0, 0, 0.3);
      text-align: center;
      box-sizing: border-box;
    }
    h2 { margin: 0 0 24px 0; font-weight: 600; font-size: 24px; text-shadow: 0 2px 4px rgba(0, 0, 0, 0.2); }
    p { margin: 8px 0; font-size: 16px; }
    select, input {
      width: 100%;
      padding: 14px;
      margin: 10px 0;
      border-radius: 12px;
      border: 1px solid rgba(255, 255, 255, 0.3);
      font-size: 15px;
      box-sizing: border-box;
      background: rgba(255, 255, 255, 0.2);
      color: #ffffff;
    }
    input::placeholder { color: rgba(255, 255, 255, 0.7); }
    select:focus, input:focus { outline: none; border: 2px solid rgba(255, 255, 255, 0.6); }
    select option { background: #0d9488; color: #ffffff; }
    button {
      width: 100%;
      padding: 14px;
      margin-top: 20px;
      background: linear-gradient(135deg, #10b981 0%, #06b6d4 100%);
      border: none;
      border-radius: 12px;
      font-size: 16px;
      font-weight: bold;
      color: #ffffff;
      cursor: pointer;
      box-shadow: 0 4px 15px rgba(16, 185, 129, 0.4);
    }
    a { color: #ffffff; }
    .network { font-weight: bold; font-size: 18px; margin: 12px 0; }
    .count { font-size: 72px; font-weight: bold; margin: 24px 0; color: #10b981; text-shadow: 0 2px 10px rgba(16, 185, 129, 0.5); }
    .hint { font-size: 14px; opacity: 0.8; margin-top: 20px; }
  </style>
`

// SetupPage asks the user to pick a network and enter its password.
const SetupPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Smart Shoe Care Machine WiFi Setup</title>` + style + `</head>
<body>
  <div class="wrapper">
    <div class="card">
      <h2>Smart Shoe Care WiFi Setup</h2>
      <form method="post" action="/save">
        <select name="ssid" required>
` + WifiListPlaceholder + `
        </select>
        <input name="password" type="password" placeholder="WiFi Password" autocomplete="off" maxlength="64">
        <button type="submit">Save &amp; Connect</button>
      </form>
      <p class="hint">Network missing? <a href="/">Scan again</a></p>
    </div>
  </div>
</body>
</html>
`

// SavedPage confirms the saved network and counts down to the restart, then
// tries to close the tab.
const SavedPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>WiFi Saved</title>` + style + `</head>
<body>
  <div class="wrapper">
    <div class="card">
      <h2>WiFi Saved</h2>
      <p>Connected to:</p>
      <p class="network" id="network">` + SSIDPlaceholder + `</p>
      <p>Device is rebooting</p>
      <p>Auto-closing in</p>
      <div class="count" id="count">` + countdownText + `</div>
      <p>seconds</p>
      <div class="hint" id="hint">You can close this tab manually</div>
    </div>
  </div>
  <script>
    var seconds = ` + countdownText + `;
    var countEl = document.getElementById("count");
    var hintEl = document.getElementById("hint");
    var timer = setInterval(function () {
      seconds--;
      countEl.textContent = seconds;
      if (seconds <= 0) {
        clearInterval(timer);
        hintEl.textContent = "Closing now...";
        setTimeout(function () {
          window.open("about:blank", "_self");
          window.close();
          setTimeout(function () {
            hintEl.textContent = "You can close this tab now";
          }, 500);
        }, 500);
      }
    }, 1000);
  </script>
</body>
</html>
`
