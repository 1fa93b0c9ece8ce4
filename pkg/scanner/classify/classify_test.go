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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(nil)

	tests := []struct {
		name    string
		file    string
		dir     string
		reason  string
		allowed bool
	}{
		{
			name:    "system_path_rejected",
			file:    "notepad.exe",
			dir:     `C:\Windows\System32`,
			reason:  "system path",
			allowed: false,
		},
		{
			name:    "recycle_bin_rejected",
			file:    "Game.exe",
			dir:     `D:\$RECYCLE.BIN\S-1-5-21`,
			reason:  "system path",
			allowed: false,
		},
		{
			name:    "guid_segment_rejected",
			file:    "runtime.exe",
			dir:     `C:\ProgramData\{8A69D345-D564-463C-AFF1-A69D9E530F96}`,
			reason:  "framework path",
			allowed: false,
		},
		{
			name:    "utility_folder_rejected",
			file:    "setup.exe",
			dir:     `D:\Games\Elden Ring\_CommonRedist`,
			reason:  "utility folder",
			allowed: false,
		},
		{
			name:    "uninstaller_rejected",
			file:    "unins000.exe",
			dir:     `D:\Games\Stardew Valley`,
			reason:  "installer",
			allowed: false,
		},
		{
			name:    "vcredist_rejected",
			file:    "vcredist_x64.exe",
			dir:     `D:\Games\Stardew Valley`,
			reason:  "installer",
			allowed: false,
		},
		{
			name:    "crash_handler_rejected",
			file:    "UnityCrashHandler64.exe",
			dir:     `D:\Games\Hollow Knight`,
			allowed: false,
		},
		{
			name:    "hex_name_rejected",
			file:    "a1b2c3d4e5f60718.exe",
			dir:     `D:\Stuff`,
			reason:  "opaque identifier",
			allowed: false,
		},
		{
			name:    "numeric_name_rejected",
			file:    "123456.exe",
			dir:     `D:\Stuff`,
			reason:  "opaque identifier",
			allowed: false,
		},
		{
			name:    "generic_stem_rejected",
			file:    "launcher.exe",
			dir:     `D:\Games\Something`,
			reason:  "generic name",
			allowed: false,
		},
		{
			name:    "known_tool_rejected",
			file:    "winrar.exe",
			dir:     `D:\Downloads`,
			reason:  "known tool",
			allowed: false,
		},
		{
			// A utility-named directory rejects before the name rules run,
			// even at a drive root.
			name:    "utility_named_directory_rejects_any_name",
			file:    "winrar.exe",
			dir:     `C:\Tools`,
			reason:  "utility folder",
			allowed: false,
		},
		{
			name:    "whitelisted_app_accepted_despite_digits",
			file:    "spotify-1.2.31.1205.exe",
			dir:     `C:\Users\someone\AppData\Roaming\Spotify`,
			reason:  "whitelist",
			allowed: true,
		},
		{
			name:    "short_name_rejected",
			file:    "go.exe",
			dir:     `D:\Apps`,
			reason:  "name too short",
			allowed: false,
		},
		{
			name:    "trusted_steamapps_path_relaxes_heuristics",
			file:    "x4.exe",
			dir:     `D:\SteamLibrary\steamapps\common\X4 Foundations`,
			allowed: false, // length floor still applies inside trusted paths
		},
		{
			name:    "trusted_path_accepts_noisy_name",
			file:    "Wolfenstein2 x64vk.exe",
			dir:     `D:\SteamLibrary\steamapps\common\Wolfenstein II`,
			reason:  "trusted",
			allowed: true,
		},
		{
			name:    "low_alpha_ratio_rejected",
			file:    "v1984x2017.exe",
			dir:     `D:\Stuff`,
			allowed: false,
		},
		{
			name:    "ordinary_game_accepted",
			file:    "Stardew Valley.exe",
			dir:     `D:\Games\Stardew Valley`,
			reason:  "heuristics",
			allowed: true,
		},
		{
			name:    "forward_slash_paths_match_rules",
			file:    "bash.exe",
			dir:     "/usr/lib/something",
			reason:  "system path",
			allowed: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := classifier.Classify(tt.file, tt.dir)

			assert.Equal(t, tt.allowed, result.Allowed)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, result.Reason)
			}
		})
	}
}

func TestCustomExclusions(t *testing.T) {
	t.Parallel()

	t.Run("user_pattern_rejects_matching_name", func(t *testing.T) {
		t.Parallel()

		classifier := NewClassifier([]string{`^mygame_debug`})

		result := classifier.Classify("MyGame_Debug.exe", `D:\Games\MyGame`)

		assert.False(t, result.Allowed)
		assert.Equal(t, "user exclusion", result.Reason)
	})

	t.Run("invalid_pattern_is_skipped", func(t *testing.T) {
		t.Parallel()

		classifier := NewClassifier([]string{`([`})

		result := classifier.Classify("Stardew Valley.exe", `D:\Games\Stardew Valley`)

		assert.True(t, result.Allowed)
	})
}

func TestDeniedPath(t *testing.T) {
	t.Parallel()

	assert.True(t, DeniedPath(`C:\Windows\System32\drivers`))
	assert.True(t, DeniedPath(`D:\$Recycle.Bin`))
	assert.False(t, DeniedPath(`D:\Games`))
}
