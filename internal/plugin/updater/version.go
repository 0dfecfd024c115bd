package updater

import (
	"runtime"
	"strconv"
	"strings"
)

// target returns the manifest platform key for this build, using the
// uname-style arch names release pipelines produce.
func target() string {
	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "i686"
	}
	return runtime.GOOS + "-" + arch
}

// compareVersions compares dotted version strings numerically, ignoring
// a leading "v" and any pre-release suffix after "-". Returns -1, 0, or 1.
func compareVersions(a, b string) int {
	fa := versionFields(a)
	fb := versionFields(b)

	for i := 0; i < len(fa) || i < len(fb); i++ {
		var na, nb int
		if i < len(fa) {
			na = fa[i]
		}
		if i < len(fb) {
			nb = fb[i]
		}
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}
	return 0
}

func versionFields(v string) []int {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v = v[:i]
	}

	parts := strings.Split(v, ".")
	fields := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		fields = append(fields, n)
	}
	return fields
}
