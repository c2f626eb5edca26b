package rxtest

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// 场景回放与golden轨迹
// ============================================================================

func TestScenarioGoldenTraces(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	g := goldie.New(t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithNameSuffix(".golden"),
	)

	for _, path := range paths {
		sc, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(sc.Name, func(t *testing.T) {
			rec, err := RunScenario(sc)
			require.NoError(t, err)
			assert.LessOrEqual(t, rec.TerminalCount(), 1)
			g.Assert(t, sc.Name, []byte(rec.Trace()))
		})
	}
}

func TestParseScenario(t *testing.T) {
	t.Run("最小场景", func(t *testing.T) {
		sc, err := ParseScenario([]byte(`
name: tiny
operator: merge
sources:
  - name: a
    events:
      - {at: 1ms, next: 5}
      - {at: 2ms, complete: true}
run: 10ms
`))
		require.NoError(t, err)
		assert.Equal(t, "tiny", sc.Name)
		require.Len(t, sc.Sources, 1)
		assert.Len(t, sc.Sources[0].Events, 2)

		rec, err := RunScenario(sc)
		require.NoError(t, err)
		assert.Equal(t, "1ms next 5\n2ms complete\n", rec.Trace())
	})

	t.Run("next为0也是数据", func(t *testing.T) {
		sc, err := ParseScenario([]byte(`
name: zero
operator: concat
sources:
  - events:
      - {at: 0s, next: 0}
      - {at: 0s, complete: true}
run: 1ms
`))
		require.NoError(t, err)

		rec, err := RunScenario(sc)
		require.NoError(t, err)
		assert.Equal(t, []interface{}{0}, rec.Values())
		assert.True(t, rec.Completed())
	})

	cases := []struct {
		name    string
		yaml    string
		message string
	}{
		{
			name:    "未知字段",
			yaml:    "name: x\noperator: zip\nrun: 1ms\nsources: []\nspeed: 2\n",
			message: "failed to parse YAML",
		},
		{
			name:    "缺少名称",
			yaml:    "operator: zip\nrun: 1ms\nsources:\n  - events: []\n",
			message: "name is required",
		},
		{
			name:    "没有源",
			yaml:    "name: x\noperator: zip\nrun: 1ms\nsources: []\n",
			message: "at least one source is required",
		},
		{
			name:    "未知操作符",
			yaml:    "name: x\noperator: switch\nrun: 1ms\nsources:\n  - events: []\n",
			message: `unknown operator "switch"`,
		},
		{
			name:    "未知组合函数",
			yaml:    "name: x\noperator: zip\ncombiner: product\nrun: 1ms\nsources:\n  - events: []\n",
			message: `unknown combiner "product"`,
		},
		{
			name:    "run格式错误",
			yaml:    "name: x\noperator: zip\nrun: soon\nsources:\n  - events: []\n",
			message: "run:",
		},
		{
			name:    "dispose_at格式错误",
			yaml:    "name: x\noperator: zip\nrun: 1ms\ndispose_at: later\nsources:\n  - events: []\n",
			message: "dispose_at:",
		},
		{
			name:    "事件同时设置两种信号",
			yaml:    "name: x\noperator: zip\nrun: 1ms\nsources:\n  - name: a\n    events:\n      - {at: 1ms, next: 1, complete: true}\n",
			message: "exactly one of next, error, complete must be set",
		},
		{
			name:    "事件没有信号",
			yaml:    "name: x\noperator: zip\nrun: 1ms\nsources:\n  - name: a\n    events:\n      - {at: 1ms}\n",
			message: "exactly one of next, error, complete must be set",
		},
		{
			name:    "事件时间格式错误",
			yaml:    "name: x\noperator: zip\nrun: 1ms\nsources:\n  - name: a\n    events:\n      - {at: never, complete: true}\n",
			message: `source "a": event 0`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "scenarios", "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestScenarioCombiners(t *testing.T) {
	build := func(combiner string) *Scenario {
		one, two := 1, 2
		return &Scenario{
			Name:     "combiner-" + combiner,
			Operator: OperatorZip,
			Combiner: combiner,
			Run:      "10ms",
			Sources: []ScenarioSource{
				{Name: "a", Events: []ScenarioEvent{{At: "1ms", Next: &one}, {At: "2ms", Complete: true}}},
				{Name: "b", Events: []ScenarioEvent{{At: "1ms", Next: &two}, {At: "3ms", Complete: true}}},
			},
		}
	}

	expected := map[string]interface{}{
		CombinerSum:   3,
		"":            3,
		CombinerJoin:  "1|2",
		CombinerFirst: 1,
	}
	for combiner, want := range expected {
		rec, err := RunScenario(build(combiner))
		require.NoError(t, err)
		assert.Equal(t, []interface{}{want}, rec.Values(), "combiner %q", combiner)
		assert.True(t, rec.Completed())
	}
}
