package ui

import (
	"fmt"
	"html"
	"strings"

	"shoecare-portal/internal/wifi"
)

// RenderSetup fills the network list of SetupPage. options must already be
// <option> markup; see OptionList.
func RenderSetup(options string) string {
	return strings.Replace(SetupPage, WifiListPlaceholder, options, 1)
}

// RenderSaved fills the network name of SavedPage. The name is escaped here
// since the page embeds it as-is.
func RenderSaved(ssid string) string {
	return strings.Replace(SavedPage, SSIDPlaceholder, html.EscapeString(ssid), 1)
}

// OptionList renders networks as <option> elements for the setup form.
func OptionList(networks []wifi.Network) string {
	if len(networks) == 0 {
		return `          <option value="" disabled selected>No networks found</option>`
	}

	var b strings.Builder
	for i, n := range networks {
		if i > 0 {
			b.WriteByte('\n')
		}
		lock := ""
		if n.Secured() {
			lock = " &#128274;"
		}
		ssid := html.EscapeString(n.SSID)
		fmt.Fprintf(&b, `          <option value="%s">%s (%d%%)%s</option>`, ssid, ssid, n.Signal, lock)
	}
	return b.String()
}
