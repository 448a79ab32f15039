package transforms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPythonTransformer_Transform(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "line magic",
			in:   "%timeit x = 1",
			want: "get_ipython().run_line_magic('timeit', 'x = 1')",
		},
		{
			name: "line magic without args",
			in:   "%matplotlib",
			want: "get_ipython().run_line_magic('matplotlib', '')",
		},
		{
			name: "assigned line magic",
			in:   "files = %ls -la",
			want: "files = get_ipython().run_line_magic('ls', '-la')",
		},
		{
			name: "system",
			in:   "!pip install 'x'",
			want: `get_ipython().system('pip install \'x\'')`,
		},
		{
			name: "system output",
			in:   "!!ls",
			want: "get_ipython().getoutput('ls')",
		},
		{
			name: "assigned system",
			in:   "out = !ls",
			want: "out = get_ipython().getoutput('ls')",
		},
		{
			name: "help suffix",
			in:   "os.path?",
			want: "get_ipython().run_line_magic('pinfo', 'os.path')",
		},
		{
			name: "detailed help prefix",
			in:   "??os",
			want: "get_ipython().run_line_magic('pinfo2', 'os')",
		},
		{
			name: "indented magic keeps indent",
			in:   "for i in range(3):\n    %time f(i)",
			want: "for i in range(3):\n    get_ipython().run_line_magic('time', 'f(i)')",
		},
		{
			name: "plain python untouched",
			in:   "x = 10 % 3\ny = x != 1\nprint(x)",
			want: "x = 10 % 3\ny = x != 1\nprint(x)",
		},
		{
			name: "cell magic untouched",
			in:   "%%ipytest\ndef test_a():\n    pass",
			want: "%%ipytest\ndef test_a():\n    pass",
		},
		{
			name: "inside triple quoted string",
			in:   "doc = \"\"\"\n%not_a_magic\n\"\"\"",
			want: "doc = \"\"\"\n%not_a_magic\n\"\"\"",
		},
		{
			name: "inside brackets",
			in:   "x = (1,\n      !2)",
			want: "x = (1,\n      !2)",
		},
		{
			name: "comment untouched",
			in:   "# %magic\n#!shebang",
			want: "# %magic\n#!shebang",
		},
		{
			name: "crlf line endings survive",
			in:   "%time f()\r\nx = 1",
			want: "get_ipython().run_line_magic('time', 'f()')\r\nx = 1",
		},
	}

	transformer := NewIPythonTransformer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transformer.Transform(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIPythonTransformer_ContinuationKeepsLineCount(t *testing.T) {
	in := "%time a = 1 + \\\n      2 + \\\n      3\nprint(a)"

	got, err := NewIPythonTransformer().Transform(in)
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "get_ipython().run_line_magic('time', ('a = 1 + '", lines[0])
	assert.Equal(t, "    '      2 + '", lines[1])
	assert.Equal(t, "    '      3'))", lines[2])
	assert.Equal(t, "print(a)", lines[3])
}

func TestIPythonTransformer_PreservesLineCount(t *testing.T) {
	inputs := []string{
		"",
		"\n\n",
		"%a\n!b\nc?\n??d\nx = %e\ny = !f",
		"def f():\n    '''\n    %doc\n    '''\n    !ls\n",
		"s = 'unterminated\n%magic",
	}

	transformer := NewIPythonTransformer()

	for _, in := range inputs {
		got, err := transformer.Transform(in)
		require.NoError(t, err)
		assert.Equal(t, strings.Count(in, "\n"), strings.Count(got, "\n"), "input %q", in)
	}
}

func TestIPythonTransformer_CustomRules(t *testing.T) {
	transformer := NewIPythonTransformer(RewriteSystem)

	got, err := transformer.Transform("%time f()\n!ls")
	require.NoError(t, err)

	assert.Equal(t, "%time f()\nget_ipython().system('ls')", got)
}
