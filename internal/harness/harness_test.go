package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_EagerWrite(t *testing.T) {
	RunWithGolden(t, filepath.Join("testdata", "scenarios", "eager_write.yaml"))
}

func TestScenario_QueueThenSave(t *testing.T) {
	RunWithGolden(t, filepath.Join("testdata", "scenarios", "queue_then_save.yaml"))
}

func TestScenario_ExceptView(t *testing.T) {
	RunWithGolden(t, filepath.Join("testdata", "scenarios", "except_view.yaml"))
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "scenarios", "no_such.yaml"))
	assert.Error(t, err)
}

func TestLoadScenario_RequiresNameAndBase(t *testing.T) {
	dir := t.TempDir()

	noName := filepath.Join(dir, "no_name.yaml")
	require.NoError(t, os.WriteFile(noName, []byte("record:\n  base: product\n"), 0o644))
	_, err := LoadScenario(noName)
	assert.Error(t, err)

	noBase := filepath.Join(dir, "no_base.yaml")
	require.NoError(t, os.WriteFile(noBase, []byte("name: x\n"), 0o644))
	_, err = LoadScenario(noBase)
	assert.Error(t, err)
}

func TestLoadScenario_ParsesSteps(t *testing.T) {
	sc, err := LoadScenario(filepath.Join("testdata", "scenarios", "queue_then_save.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "queue_then_save", sc.Name)
	assert.Equal(t, "product", sc.Record.Base)
	assert.False(t, sc.Record.Durable)
	require.Len(t, sc.Steps, 6)
	assert.Equal(t, []string{"temp"}, sc.Steps[4].Unset)
	require.NotNil(t, sc.Steps[5].Save)
	assert.Equal(t, int64(5), sc.Steps[5].Save.ID)
}
