// Atlas Core
// Copyright (c) 2026 The Atlas Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Atlas Core.
//
// Atlas Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Atlas Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Atlas Core.  If not, see <http://www.gnu.org/licenses/>.

package classify

import "regexp"

// The classifier selects executables by exclusion: there is no reliable
// positive signal for "this is a game", so the rule tables below suppress
// everything known to be noise and the heuristics in classify.go handle
// the rest. Rules live in data tables so the rule set and the decision
// logic can evolve independently and each rule can be tested on its own.

// NameRule rejects a file name (sans extension) matching Pattern.
type NameRule struct {
	Pattern *regexp.Regexp
	Reason  string
}

func mustRules(reason string, patterns []string) []NameRule {
	rules := make([]NameRule, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, NameRule{
			Pattern: regexp.MustCompile(`(?i)` + p),
			Reason:  reason,
		})
	}
	return rules
}

// hardPathFragments reject a containing directory outright, independent of
// the file name. These are OS installation and data directories that never
// hold user content. Paths are matched lower-cased with forward slashes.
var hardPathFragments = []string{
	`c:/windows`,
	`/windows/system32`,
	`/windows/syswow64`,
	`/windows/winsxs`,
	`/windows/servicing`,
	`/windows/installer`,
	`/programdata/microsoft`,
	`/programdata/package cache`,
	`$recycle.bin`,
	`system volume information`,
	`/driverstore/`,
	`/appdata/local/temp`,
	`/usr/lib/`,
	`/usr/libexec/`,
	`/etc/`,
	`/proc/`,
	`/sys/`,
}

// guidSegmentRe matches a GUID-shaped path segment, common in installer
// caches and store-packaged framework components.
var guidSegmentRe = regexp.MustCompile(
	`\{?[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\}?`)

// hashSegmentRe matches long opaque hash-like path segments. Combined with
// a first-party publisher marker in the path it indicates a packaged
// framework component rather than user content.
var hashSegmentRe = regexp.MustCompile(`/[0-9a-f]{16,}(/|$)`)

var publisherMarkers = []string{
	"microsoft.",
	"windowsapps",
	"systemapps",
	"microsoftwindows",
}

// utilityFolders are non-content subfolder names: redistributables, support
// tools, prerequisite installers and driver bundles shipped inside game
// directories.
var utilityFolders = map[string]struct{}{
	"redist":           {},
	"redistributables": {},
	"_redist":          {},
	"_commonredist":    {},
	"commonredist":     {},
	"directx":          {},
	"dotnet":           {},
	"dotnetcore":       {},
	"vcredist":         {},
	"vc_redist":        {},
	"support":          {},
	"tools":            {},
	"prerequisites":    {},
	"dependencies":     {},
	"drivers":          {},
	"installers":       {},
	"thirdparty":       {},
	"third-party":      {},
	"easyanticheat":    {},
	"battleye":         {},
	"crashhandler":     {},
	"crashreporter":    {},
	"dxsetup":          {},
}

// nameRejectRules is the single largest source of false-positive
// suppression. It is an open table: new patterns slot into the matching
// group, user exclusions from config are appended at runtime.
var nameRejectRules = joinRules(
	// Installers, uninstallers and patchers.
	mustRules("installer", []string{
		`^unins\d*$`,
		`^uninst(all)?`,
		`^setup([_\-\s].*)?$`,
		`setup$`,
		`^install([_\-\s].*)?$`,
		`install$`,
		`^vcredist`,
		`^vc_redist`,
		`^dxsetup$`,
		`^dxwebsetup$`,
		`^dotnetfx`,
		`^ndp\d+`,
		`^oalinst$`,
		`^directx`,
		`^redist`,
		`^prereq`,
		`^depends$`,
		`^extract(or)?$`,
		`^repair$`,
		`^patch([_\-\s].*)?$`,
	}),
	// Updaters and bootstrap processes.
	mustRules("updater", []string{
		`updater?$`,
		`^update([_\-\s].*)?$`,
		`^autoupdate`,
		`^selfupdate`,
		`bootstrapper$`,
		`^bootstrap`,
		`^prelauncher$`,
		`^preloader$`,
		`downloader$`,
	}),
	// Helper, service and background processes.
	mustRules("helper", []string{
		`helper$`,
		`^helper`,
		`service$`,
		`^service`,
		`daemon$`,
		`agent$`,
		`broker$`,
		`watcher$`,
		`monitor$`,
		`^background`,
		`hostprocess$`,
		`^host$`,
		`webhelper$`,
		`messagerouter$`,
		`^subprocess`,
		`renderer$`,
		`^gpu[_\-]?process$`,
	}),
	// Anti-cheat, anti-virus and security tooling.
	mustRules("security", []string{
		`anticheat`,
		`^eac[_\-]`,
		`easyanticheat`,
		`battleye`,
		`^be[sl]ervice`,
		`antivirus`,
		`defender`,
		`^scan(ner)?$`,
		`vanguard`,
		`punkbuster`,
		`^pb(svc|setup)$`,
		`protect(ion)?$`,
		`securom`,
		`^activation`,
	}),
	// Overlay, telemetry and crash reporting agents.
	mustRules("telemetry", []string{
		`overlay`,
		`telemetry`,
		`crashreport`,
		`^crashpad`,
		`crashhandler`,
		`crashsender`,
		`^sendreport`,
		`errorreport`,
		`^bugreport`,
		`^minidump`,
		`analytics`,
		`^metrics`,
	}),
	// Generic system utilities.
	mustRules("utility", []string{
		`^regsvr`,
		`^regedit`,
		`^rundll`,
		`^cmd$`,
		`^powershell$`,
		`^wscript$`,
		`^cscript$`,
		`^msiexec$`,
		`^taskkill$`,
		`^tasklist$`,
		`^netsh$`,
		`^diagnostics?$`,
		`^troubleshoot`,
		`^cleanup$`,
		`^cleaner$`,
		`^register`,
		`^unregister`,
		`^activate$`,
		`^validate$`,
		`^verify$`,
	}),
	// Curated exclusions observed in the wild: binaries that read like
	// content but are plumbing.
	mustRules("curated", []string{
		`^config(urator|uration)?$`,
		`config(tool)?$`,
		`handler$`,
		`^dialog`,
		`dialog$`,
		`^client$`,
		`benchmark$`,
		`^bench$`,
		`^settings$`,
		`^options$`,
		`^console$`,
		`^server$`,
		`dedicated[_\-]?server$`,
		`^editor$`,
		`^profiler$`,
		`^readme$`,
		`^eula$`,
		`^manual$`,
		`^report[_\-]?tool$`,
		`^touchup$`,
		`^unitycrashhandler(32|64)?$`,
		`^ue4prereqsetup`,
		`^ueprereqsetup`,
		`^quicksfv$`,
		`^webview\d*$`,
		`^msedgewebview\d*$`,
	}),
)

func joinRules(groups ...[]NameRule) []NameRule {
	var all []NameRule
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// Opaque-identifier names: synthetic installer artifacts.
var (
	hexNameRe     = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
	guidNameRe    = regexp.MustCompile(`^\{?[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\}?$`)
	numericNameRe = regexp.MustCompile(`^\d{6,}$`)
)

// genericStems are maximally generic names that identify nothing.
var genericStems = map[string]struct{}{
	"app":      {},
	"main":     {},
	"run":      {},
	"start":    {},
	"launcher": {},
	"game":     {},
}

// toolKeywords mark known non-game tools: archivers, interpreters, generic
// editors/viewers/converters.
var toolKeywords = []string{
	"winrar",
	"7zip",
	"7-zip",
	"winzip",
	"unrar",
	"unzip",
	"python",
	"javaw",
	"node.js",
	"perl",
	"ruby",
	"notepad",
	"wordpad",
	"texteditor",
	"hexeditor",
	"imageviewer",
	"pdfviewer",
	"converter",
	"transcoder",
	"defrag",
}

// whitelistKeywords accept unconditionally. These are applications the
// user likely wants tracked but which fail the generic heuristics
// (short names, digits, helper-like stems).
var whitelistKeywords = []string{
	"spotify",
	"discord",
	"slack",
	"telegram",
	"whatsapp",
	"signal",
	"zoom",
	"obs64",
	"obs32",
	"obsidian",
	"blender",
	"krita",
	"gimp",
	"inkscape",
	"audacity",
	"davinci",
	"notion",
	"figma",
	"firefox",
	"chrome",
	"vivaldi",
	"brave",
	"thunderbird",
	"vlc",
	"foobar2000",
	"calibre",
}

// trustedPathFragments mark launcher-managed game-content folders. Files
// here skip the numeric/alphabetic heuristics; only the length floor
// applies.
var trustedPathFragments = []string{
	`steamapps/common`,
	`epic games/`,
	`gog galaxy/games`,
	`gog games`,
	`ea games`,
	`origin games`,
	`ubisoft game launcher/games`,
	`xboxgames`,
	`/my games/`,
}
