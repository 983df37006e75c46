// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package version reports which build of the simulator is running. The
// variables below are set through -ldflags at release time.
package version

import (
	"fmt"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"
)

// Name prefixes every printed version.
const Name = "batchsim"

var (
	// BuildDate is the RFC3339 time of the commit that was built.
	BuildDate string

	GitCommit string

	// GitDescribe overrides Version when set, for example "v0.3.1" from
	// git describe. A leading 'v' is dropped.
	GitDescribe string

	Version = "0.3.0"

	// VersionPrerelease marks a build that is not a final release, such as
	// "dev" or "rc1". Empty for releases.
	VersionPrerelease = "dev"
)

// VersionInfo is a snapshot of the build variables.
type VersionInfo struct {
	BuildDate         time.Time
	Revision          string
	Version           string
	VersionPrerelease string
}

func GetVersion() *VersionInfo {
	info := &VersionInfo{
		Revision:          GitCommit,
		Version:           Version,
		VersionPrerelease: VersionPrerelease,
	}
	if GitDescribe != "" {
		// a described build carries its own prerelease suffix, if any
		info.Version = strings.TrimPrefix(GitDescribe, "v")
		info.VersionPrerelease = ""
	}

	// unparsable dates are left as the zero time
	info.BuildDate, _ = time.Parse(time.RFC3339, BuildDate)
	return info
}

// VersionNumber is the version with its prerelease suffix.
func (c *VersionInfo) VersionNumber() string {
	if c.VersionPrerelease == "" {
		return c.Version
	}
	return c.Version + "-" + c.VersionPrerelease
}

// SemVer parses the version number. A GitDescribe that is not a version
// (a bare commit, for example) is an error.
func (c *VersionInfo) SemVer() (*goversion.Version, error) {
	return goversion.NewSemver(c.VersionNumber())
}

// FullVersionNumber is what the version command prints. The build date is
// included when known and the revision only when rev is set.
func (c *VersionInfo) FullVersionNumber(rev bool) string {
	lines := []string{fmt.Sprintf("%s v%s", Name, c.VersionNumber())}
	if !c.BuildDate.IsZero() {
		lines = append(lines, "BuildDate "+c.BuildDate.Format(time.RFC3339))
	}
	if rev && c.Revision != "" {
		lines = append(lines, "Revision "+c.Revision)
	}
	return strings.Join(lines, "\n")
}
