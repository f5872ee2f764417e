package runner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fab/internal/adapters/runner"
)

func TestParseTrace_Accesses(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []runner.Access
	}{
		{
			name: "openat read",
			line: `4021  openat(AT_FDCWD, "main.c", O_RDONLY|O_NOCTTY) = 3`,
			want: []runner.Access{runner.NewAccess("/p/main.c", false)},
		},
		{
			name: "openat write",
			line: `4021  openat(AT_FDCWD, "main.o", O_WRONLY|O_CREAT|O_TRUNC, 0666) = 3`,
			want: []runner.Access{runner.NewAccess("/p/main.o", true)},
		},
		{
			name: "open read write",
			line: `open("/p/lib.a", O_RDWR) = 4`,
			want: []runner.Access{runner.NewAccess("/p/lib.a", true)},
		},
		{
			name: "unfinished open keeps flags",
			line: `4022  openat(AT_FDCWD, "util.h", O_RDONLY <unfinished ...>`,
			want: []runner.Access{runner.NewAccess("/p/util.h", false)},
		},
		{
			name: "creat",
			line: `4021  creat("out.txt", 0644) = 3`,
			want: []runner.Access{runner.NewAccess("/p/out.txt", true)},
		},
		{
			name: "newfstatat",
			line: `4021  newfstatat(AT_FDCWD, "include/util.h", {st_mode=S_IFREG|0644, st_size=10, ...}, 0) = 0`,
			want: []runner.Access{runner.NewAccess("/p/include/util.h", false)},
		},
		{
			name: "stat of missing file",
			line: `4021  stat("config.h", 0x7ffd) = -1 ENOENT (No such file or directory)`,
			want: []runner.Access{runner.NewAccess("/p/config.h", false)},
		},
		{
			name: "statx",
			line: `4021  statx(AT_FDCWD, "/p/a.c", AT_STATX_SYNC_AS_STAT, STATX_ALL, {...}) = 0`,
			want: []runner.Access{runner.NewAccess("/p/a.c", false)},
		},
		{
			name: "execve",
			line: `4021  execve("/usr/bin/cc", ["cc", "-c", "main.c"], 0x7ffd /* 20 vars */) = 0`,
			want: []runner.Access{runner.NewAccess("/usr/bin/cc", false)},
		},
		{
			name: "mkdir",
			line: `4021  mkdir("build", 0777) = 0`,
			want: []runner.Access{runner.NewAccess("/p/build", false)},
		},
		{
			name: "rename destination is an output",
			line: `4021  rename("main.o.tmp", "main.o") = 0`,
			want: []runner.Access{runner.NewAccess("/p/main.o", true)},
		},
		{
			name: "renameat2",
			line: `4021  renameat2(AT_FDCWD, "a.tmp", AT_FDCWD, "out/a", RENAME_NOREPLACE) = 0`,
			want: []runner.Access{runner.NewAccess("/p/out/a", true)},
		},
		{
			name: "dirfd relative paths are dropped",
			line: `4021  openat(3, "entry", O_RDONLY) = 4`,
			want: nil,
		},
		{
			name: "empty paths are dropped",
			line: `4021  newfstatat(3, "", {st_mode=S_IFDIR|0755, ...}, AT_EMPTY_PATH) = 0`,
			want: nil,
		},
		{
			name: "escaped path",
			line: `4021  openat(AT_FDCWD, "my \"file\".c", O_RDONLY) = 3`,
			want: []runner.Access{runner.NewAccess(`/p/my "file".c`, false)},
		},
		{
			name: "unrelated syscall",
			line: `4021  read(3, "int main", 832) = 832`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _, _, err := runner.ParseTrace(strings.NewReader(tt.line+"\n"), "/p")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTrace_Chdir(t *testing.T) {
	log := strings.Join([]string{
		`4021  chdir("sub") = 0`,
		`4021  openat(AT_FDCWD, "a.c", O_RDONLY) = 3`,
		`4021  chdir("/nope") = -1 ENOENT (No such file or directory)`,
		`4021  chdir("..") = 0`,
		`4021  openat(AT_FDCWD, "b.c", O_RDONLY) = 3`,
	}, "\n")

	got, _, _, _, err := runner.ParseTrace(strings.NewReader(log), "/p")
	require.NoError(t, err)
	assert.Equal(t, []runner.Access{
		runner.NewAccess("/p/sub/a.c", false),
		runner.NewAccess("/p/b.c", false),
	}, got)
}

func TestParseTrace_Status(t *testing.T) {
	log := strings.Join([]string{
		`4022  exit_group(0)                     = ?`,
		`4022  +++ exited with 0 +++`,
		`4021  exit_group(2)                     = ?`,
		`4021  +++ exited with 2 +++`,
	}, "\n")

	_, status, hasStatus, killed, err := runner.ParseTrace(strings.NewReader(log), "/p")
	require.NoError(t, err)
	assert.True(t, hasStatus)
	assert.Equal(t, 2, status)
	assert.False(t, killed)
}

func TestParseTrace_Killed(t *testing.T) {
	log := `4021  +++ killed by SIGKILL +++`

	_, _, hasStatus, killed, err := runner.ParseTrace(strings.NewReader(log), "/p")
	require.NoError(t, err)
	assert.False(t, hasStatus)
	assert.True(t, killed)
}
