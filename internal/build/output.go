package build

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// Output file names.
const (
	RoutesFile   = "routes.json"
	SidebarsFile = "sidebars.json"
	SiteFile     = "site.json"
	FeaturesFile = "features.html"
)

// writeOutput renders every artifact into a staging directory next to the
// output directory and then moves it into place. A failure leaves the
// previous output untouched.
func writeOutput(bs *BuildState) (string, error) {
	out := bs.Config.OutputDir()
	parent := filepath.Dir(out)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return "", outputError(err, "failed to create output parent", parent)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(out)+".staging-")
	if err != nil {
		return "", outputError(err, "failed to create staging directory", parent)
	}
	defer func() { _ = os.RemoveAll(staging) }()
	if err := os.Chmod(staging, 0o755); err != nil {
		return "", outputError(err, "failed to prepare staging directory", staging)
	}

	artifacts, err := renderArtifacts(bs)
	if err != nil {
		return "", err
	}
	for _, a := range artifacts {
		if err := os.WriteFile(filepath.Join(staging, a.name), a.data, 0o644); err != nil {
			return "", outputError(err, "failed to write artifact", a.name)
		}
	}

	if err := promote(staging, out, bs.Config.Output.Clean); err != nil {
		return "", err
	}
	bs.logger().Info("Output written", logfields.Path(out), logfields.Count(len(artifacts)))
	return out, nil
}

type artifact struct {
	name string
	data []byte
}

func renderArtifacts(bs *BuildState) ([]artifact, error) {
	var routesBuf bytes.Buffer
	if err := bs.Table.Write(&routesBuf); err != nil {
		return nil, outputError(err, "failed to encode routes", RoutesFile)
	}
	sidebars, err := marshalIndent(sidebarsManifest(bs.Config, bs.Registry, bs.Tree, bs.Table))
	if err != nil {
		return nil, outputError(err, "failed to encode sidebars", SidebarsFile)
	}
	site, err := marshalIndent(siteManifest(bs))
	if err != nil {
		return nil, outputError(err, "failed to encode site", SiteFile)
	}
	return []artifact{
		{RoutesFile, routesBuf.Bytes()},
		{SidebarsFile, sidebars},
		{SiteFile, site},
		{FeaturesFile, bs.FeaturesHTML},
	}, nil
}

func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// promote moves the staged artifacts into out. With clean the whole
// directory is replaced, otherwise files are moved one by one and unrelated
// files in out survive.
func promote(staging, out string, clean bool) error {
	if clean {
		return swapDir(staging, out)
	}

	if err := os.MkdirAll(out, 0o750); err != nil {
		return outputError(err, "failed to create output directory", out)
	}
	entries, err := os.ReadDir(staging)
	if err != nil {
		return outputError(err, "failed to read staging directory", staging)
	}
	for _, e := range entries {
		if err := rename(filepath.Join(staging, e.Name()), filepath.Join(out, e.Name())); err != nil {
			return outputError(err, fmt.Sprintf("failed to move %s into place", e.Name()), out)
		}
	}
	return nil
}

// rename is swapped out in tests to simulate a failing move.
var rename = os.Rename

// swapDir replaces out with staging. The previous directory is parked under
// a backup name until the swap succeeds and is restored if it does not.
func swapDir(staging, out string) error {
	backup := ""
	if _, err := os.Lstat(out); err == nil {
		backup = staging + ".previous"
		if err := rename(out, backup); err != nil {
			return outputError(err, "failed to move previous output aside", out)
		}
	} else if !os.IsNotExist(err) {
		return outputError(err, "failed to inspect output directory", out)
	}

	if err := rename(staging, out); err != nil {
		if backup != "" {
			if rerr := rename(backup, out); rerr != nil {
				return outputError(rerr, "failed to restore previous output", backup)
			}
		}
		return outputError(err, "failed to move staging directory into place", out)
	}
	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			return outputError(err, "failed to remove previous output", backup)
		}
	}
	return nil
}

func outputError(err error, msg, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, msg).WithContext("path", path).Build()
}
