package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/ipynb2/internal/adapter"
	"github.com/mouse-blink/ipynb2/internal/domain/transforms"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

func TestMagicDetector_Detect(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		lines []int
	}{
		{name: "plain python", src: "x = 1\ny = x + 2", lines: []int{}},
		{name: "empty", src: "", lines: []int{}},
		{name: "line magic", src: "%magic_call()", lines: []int{1}},
		{name: "cell magic", src: "%%time\nx = 1", lines: []int{1}},
		{name: "indented cell magic", src: "  %%capture\nx = 1", lines: []int{1}},
		{name: "system command", src: "x = 1\n!ls -la\ny = 2", lines: []int{2}},
		{name: "assigned system output", src: "files = !ls\nprint(files)", lines: []int{1}},
		{name: "help", src: "len?", lines: []int{1}},
		{name: "runtime call", src: "ip = get_ipython()\nx = 1", lines: []int{1}},
		{name: "runtime method chain", src: "get_ipython().run_line_magic('time', 'x')", lines: []int{1}},
		{name: "module attribute", src: "import os\nipytest.autoconfig()", lines: []int{2}},
		{name: "module import", src: "import ipytest\nx = 1", lines: []int{1}},
		{name: "alias import", src: "import ipytest as tm\ntm.enable()\nx = 2", lines: []int{1, 2}},
		{name: "from import binds names", src: "from ipytest import clean_tests, run as go\nclean_tests()\ngo('-q')\nrun()", lines: []int{1, 2, 3}},
		{name: "alias used before import", src: "tm.enable()\nimport ipytest as tm", lines: []int{2}},
		{name: "unrelated import", src: "import numpy as np\nnp.zeros(3)", lines: []int{}},
		{name: "multi line call", src: "ipytest.config(\n    rewrite_asserts=True,\n)\nx = 1", lines: []int{1, 2, 3}},
		{name: "magic in function body", src: "def f():\n    %time g()\n    return 1", lines: []int{2}},
		{name: "percent operator is not a magic", src: "x = 10 % 3", lines: []int{}},
		{name: "magic inside string is ignored", src: "s = '''\n%time\n'''", lines: []int{}},
	}

	detector := newTestDetector()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detection, err := detector.Detect(m.NewSource(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.lines, detection.Lines)
		})
	}
}

func TestMagicDetector_AliasesAreReturnedPerFragment(t *testing.T) {
	detector := newTestDetector()

	first, err := detector.Detect(m.NewSource("import ipytest as tm\ntm.enable()"))
	require.NoError(t, err)
	assert.Equal(t, []string{"get_ipython", "ipytest", "tm"}, first.Names)

	second, err := detector.Detect(m.NewSource("tm.enable()"))
	require.NoError(t, err)
	assert.Empty(t, second.Lines)
	assert.Equal(t, []string{"get_ipython", "ipytest"}, second.Names)
}

func TestMagicDetector_CustomNames(t *testing.T) {
	detector := NewMagicDetector(transforms.NewIPythonTransformer(), adapter.NewTreeSitterPythonAdapter(), []string{"display"}, []string{"nbtest"})

	detection, err := detector.Detect(m.NewSource("import nbtest\ndisplay(1)\nipytest.x()"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, detection.Lines)
}

func TestMagicDetector_SyntaxError(t *testing.T) {
	detector := newTestDetector()

	_, err := detector.Detect(m.NewSource("x = 1\ndef broken(:\n    pass"))
	require.Error(t, err)
	assert.ErrorIs(t, err, m.ErrSyntax)

	var syntaxErr *m.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 2, syntaxErr.Line)
}

func TestMagicDetector_RejectsPython2AndBadIndentation(t *testing.T) {
	detector := newTestDetector()

	tests := []struct {
		src  string
		line int
	}{
		{src: "print 'hello'", line: 1},
		{src: "exec 'x = 1'", line: 1},
		{src: "import sys\nprint >>sys.stderr, 'x'", line: 2},
		{src: "del f()", line: 1},
		{src: "def f():\n  x = 1\n   y = 2", line: 3},
	}

	for _, tt := range tests {
		_, err := detector.Detect(m.NewSource(tt.src))
		require.Error(t, err, tt.src)

		var syntaxErr *m.SyntaxError
		require.True(t, errors.As(err, &syntaxErr), tt.src)
		assert.Equal(t, tt.line, syntaxErr.Line, tt.src)
	}
}

type failingTransformer struct{}

func (failingTransformer) Transform(string) (string, error) {
	return "", errors.New("boom")
}

func TestMagicDetector_TransformerError(t *testing.T) {
	detector := NewMagicDetector(failingTransformer{}, adapter.NewTreeSitterPythonAdapter(), nil, nil)

	_, err := detector.Detect(m.NewSource("x = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
