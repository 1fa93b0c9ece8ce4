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

//go:build windows

package launchers

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"syscall"
)

// appxQuery asks for only the fields the adapter reads. ConvertTo-Json
// returns a bare object rather than an array for a single result.
const appxQuery = `Get-AppxPackage | Where-Object { -not $_.IsFramework } | ` +
	`Select-Object Name, PackageFamilyName, InstallLocation | ConvertTo-Json`

type appxPackage struct {
	Name              string `json:"Name"`
	PackageFamilyName string `json:"PackageFamilyName"`
	InstallLocation   string `json:"InstallLocation"`
}

// appxInventory lists installed store packages through PowerShell.
type appxInventory struct{}

// NewSystemPackageInventory returns the store package inventory for this
// platform.
func NewSystemPackageInventory() PackageInventory {
	return appxInventory{}
}

func (appxInventory) InstalledPackages(ctx context.Context) ([]Package, error) {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", appxQuery)
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("error listing appx packages: %w", err)
	}

	var raw []appxPackage
	if err := json.Unmarshal(out, &raw); err != nil {
		var single appxPackage
		if err := json.Unmarshal(out, &single); err != nil {
			return nil, fmt.Errorf("error parsing appx package list: %w", err)
		}
		raw = []appxPackage{single}
	}

	packages := make([]Package, 0, len(raw))
	for _, pkg := range raw {
		packages = append(packages, Package{
			Name:            pkg.Name,
			PackageFamilyID: pkg.PackageFamilyName,
			InstallLocation: pkg.InstallLocation,
		})
	}
	return packages, nil
}
