package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamwork/drafter/internal/adapters/driven/codec/xmlcodec"
	"github.com/seamwork/drafter/internal/adapters/driven/measurements"
	"github.com/seamwork/drafter/internal/adapters/driven/storage/memory"
	"github.com/seamwork/drafter/internal/core/ports/driven"
	"github.com/seamwork/drafter/internal/core/services"
)

const bodiceXML = `<?xml version="1.0" encoding="UTF-8"?>
<drafting unit="cm" id="bodice" next-id="9">
  <meta>
    <measurements path="body.toml"/>
  </meta>
  <increments>
    <increment name="#ease" formula="2"/>
  </increments>
  <operations>
    <op id="1" kind="base_point" outputs="2" name="A" x="0" y="0"/>
    <op id="3" kind="end_line" outputs="4 5" name="B" base="2" length="waist/4 + #ease" angle="0"/>
    <op id="6" kind="along_line" outputs="7 8" name="M" first="2" second="4" length="Line_A_B/2"/>
  </operations>
</drafting>
`

const bodyTOML = `unit = "cm"

[measurements]
waist = 32
`

// testEnv holds the services installed for a CLI test.
type testEnv struct {
	dir      string
	path     string
	services *Services
	config   *memory.ConfigStore
}

func memoryStores() (driven.EntityStore, driven.VariableStore) {
	return memory.NewEntityStore(), memory.NewVariableStore()
}

// setupTestServices installs real services over memory stores and writes a
// drafting whose point B recomputes to (10, 0) and M to (5, 0).
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "bodice.xml")
	writeFile(t, path, bodiceXML)
	writeFile(t, filepath.Join(dir, "body.toml"), bodyTOML)

	ws := services.NewWorkspace(nil, memoryStores)
	codec := xmlcodec.New()
	source := measurements.NewSource()
	drafting := services.NewDraftingService(ws, codec, source)
	config := memory.NewConfigStore(nil)

	env := &testEnv{
		dir:    dir,
		path:   path,
		config: config,
		services: &Services{
			Drafting: drafting,
			History:  services.NewHistoryService(ws, 0),
			Query:    services.NewQueryService(ws),
			Library:  services.NewLibraryService(ws, memory.NewLibraryStore(), codec, drafting),
			Settings: services.NewSettingsService(config),
		},
	}
	SetServices(env.services)

	t.Cleanup(func() {
		SetServices(&Services{})
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
	})
	return env
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	want := []string{
		"new", "show", "ops", "vars", "eval", "check", "measure",
		"edit", "rename", "remove", "move", "increment",
		"watch", "library", "settings", "mcp", "version",
	}
	registered := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		assert.True(t, registered[name], "%s command should be registered", name)
	}
}

func TestRootCmd_HelpOutput(t *testing.T) {
	out, err := execute(t, "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "parametric garment pattern draftings")
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestSetServices(t *testing.T) {
	env := setupTestServices(t)

	assert.Equal(t, env.services.Drafting, draftingService)
	assert.Equal(t, env.services.Query, queryService)
	assert.Equal(t, env.services.Settings, settingsService)
	assert.Nil(t, measurementWatcher)
}

func TestCommands_ServiceNotConfigured(t *testing.T) {
	SetServices(&Services{})
	t.Cleanup(func() { resetFlags(rootCmd) })

	tests := []struct {
		args []string
		want error
	}{
		{[]string{"new", "x.xml"}, errDraftingNotConfigured},
		{[]string{"show", "x.xml"}, errQueryNotConfigured},
		{[]string{"check", "x.xml"}, errDraftingNotConfigured},
		{[]string{"edit", "x.xml", "1", "x=1"}, errHistoryNotConfigured},
		{[]string{"library", "list"}, errLibraryNotConfigured},
		{[]string{"settings", "show"}, errSettingsNotConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStylesFor_PlainWhenNotTerminal(t *testing.T) {
	st := stylesFor(new(bytes.Buffer))

	assert.Equal(t, "OK", st.Success.Render("OK"))
	assert.Equal(t, "Title", st.Title.Render("Title"))
}
