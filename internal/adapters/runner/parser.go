package runner

import (
	"bufio"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Patterns over strace -f output. Every line may carry a leading PID.
var (
	openRe = regexp.MustCompile(
		`^(?:\d+\s+)?(?:open|openat)\((?:(AT_FDCWD|\d+), )?"((?:[^"\\]|\\.)*)", ([A-Z_|]+)`)
	creatRe = regexp.MustCompile(
		`^(?:\d+\s+)?creat\("((?:[^"\\]|\\.)*)"`)
	depRe = regexp.MustCompile(
		`^(?:\d+\s+)?(?:stat|stat64|lstat|lstat64|newfstatat|fstatat64|statx|execve|execveat|mkdir|mkdirat)\((?:(AT_FDCWD|\d+), )?"((?:[^"\\]|\\.)*)"`)
	renameRe = regexp.MustCompile(
		`^(?:\d+\s+)?(?:rename\("(?:[^"\\]|\\.)*", |renameat2?\((?:AT_FDCWD|\d+), "(?:[^"\\]|\\.)*", (AT_FDCWD|\d+), )"((?:[^"\\]|\\.)*)"`)
	chdirRe     = regexp.MustCompile(`^(?:\d+\s+)?chdir\("((?:[^"\\]|\\.)*)"\)\s*=\s*0`)
	exitGroupRe = regexp.MustCompile(`^(?:\d+\s+)?exit_group\((-?\d+)\)`)
	killedRe    = regexp.MustCompile(`\+\+\+ killed by `)
)

// access is one path a traced command touched.
type access struct {
	path   string
	output bool
}

// traceLog is what parseTrace extracted from an strace log.
type traceLog struct {
	accesses []access
	// status is the argument of the last exit_group call, if any.
	status    int
	hasStatus bool
	// killed is set when a traced process died from a signal.
	killed bool
}

// parseTrace reads strace output. Relative paths are resolved against cwd,
// which follows successful chdir calls. Calls relative to a directory
// descriptor other than AT_FDCWD cannot be resolved and are dropped unless
// their path is absolute.
func parseTrace(r io.Reader, cwd string) (*traceLog, error) {
	log := &traceLog{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if killedRe.MatchString(line) {
			log.killed = true
			continue
		}

		if m := openRe.FindStringSubmatch(line); m != nil {
			flags := m[3]
			output := strings.Contains(flags, "O_WRONLY") || strings.Contains(flags, "O_RDWR")
			log.add(cwd, m[1], m[2], output)
			continue
		}
		if m := creatRe.FindStringSubmatch(line); m != nil {
			log.add(cwd, "", m[1], true)
			continue
		}
		if m := renameRe.FindStringSubmatch(line); m != nil {
			log.add(cwd, m[1], m[2], true)
			continue
		}
		if m := depRe.FindStringSubmatch(line); m != nil {
			log.add(cwd, m[1], m[2], false)
			continue
		}
		if m := chdirRe.FindStringSubmatch(line); m != nil {
			cwd = resolve(cwd, unquote(m[1]))
			continue
		}
		if m := exitGroupRe.FindStringSubmatch(line); m != nil {
			status, err := strconv.Atoi(m[1])
			if err == nil {
				log.status = status
				log.hasStatus = true
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read trace log")
	}
	return log, nil
}

func (l *traceLog) add(cwd, dirfd, raw string, output bool) {
	path := unquote(raw)
	if path == "" {
		return
	}
	if dirfd != "" && dirfd != "AT_FDCWD" && !filepath.IsAbs(path) {
		return
	}
	l.accesses = append(l.accesses, access{path: resolve(cwd, path), output: output})
}

func resolve(cwd, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cwd, path)
}

// unquote undoes strace's C-style escaping of path arguments.
func unquote(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return u
	}
	return s
}
