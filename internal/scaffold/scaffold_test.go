package scaffold

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samus-io/stephelper/internal/logger"
	"github.com/samus-io/stephelper/internal/manifest"
	"github.com/samus-io/stephelper/internal/stepid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const fixedID = "IDVALUE"

func defaultProps() manifest.Properties {
	return manifest.NewProperties("samus.io", "samus-io")
}

func mustVariant(t *testing.T, name string) *manifest.Variant {
	t.Helper()
	v, err := manifest.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q) error: %v", name, err)
	}
	return v
}

func fixedOpts() Options {
	return Options{IDs: stepid.Fixed(fixedID)}
}

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestCreateStep_StepCreationVariant(t *testing.T) {
	fsys := afero.NewMemMapFs()

	res, err := CreateStep(context.Background(), fsys, mustVariant(t, "step-creation"), defaultProps(), fixedOpts())
	if err != nil {
		t.Fatalf("CreateStep() error: %v", err)
	}
	if res.ID != fixedID {
		t.Errorf("ID = %q, want %q", res.ID, fixedID)
	}

	assertDir(t, fsys, fixedID)
	assertDir(t, fsys, "IDVALUE/en")
	assertContent(t, fsys, "IDVALUE/en/README.md", "# TODO\n")
	assertProperties(t, fsys, defaultProps())
	assertMissing(t, fsys, "IDVALUE/es")
	assertMissing(t, fsys, "IDVALUE/docker")

	assertList(t, "Dirs", res.Dirs, []string{"IDVALUE", "IDVALUE/en"})
	assertList(t, "Files", res.Files, []string{"IDVALUE/en/README.md", "IDVALUE/properties.json"})
	if !res.Complete(mustVariant(t, "step-creation")) {
		t.Error("Complete() = false, want true")
	}
}

func TestCreateStep_StepsVariant(t *testing.T) {
	fsys := afero.NewMemMapFs()

	res, err := CreateStep(context.Background(), fsys, mustVariant(t, "steps"), defaultProps(), fixedOpts())
	if err != nil {
		t.Fatalf("CreateStep() error: %v", err)
	}

	assertContent(t, fsys, "IDVALUE/en/README.md", "# \n\n")
	assertContent(t, fsys, "IDVALUE/es/README.md", "")
	assertProperties(t, fsys, defaultProps())

	assertDir(t, fsys, "IDVALUE/docker")
	empty, err := afero.IsEmpty(fsys, "IDVALUE/docker")
	if err != nil {
		t.Fatalf("IsEmpty(docker) error: %v", err)
	}
	if !empty {
		t.Error("docker directory should be empty")
	}

	assertList(t, "Dirs", res.Dirs, []string{"IDVALUE", "IDVALUE/docker", "IDVALUE/en", "IDVALUE/es"})
	assertList(t, "Files", res.Files, []string{"IDVALUE/en/README.md", "IDVALUE/es/README.md", "IDVALUE/properties.json"})
}

func TestCreateStep_PropertiesFormat(t *testing.T) {
	fsys := afero.NewMemMapFs()

	if _, err := CreateStep(context.Background(), fsys, mustVariant(t, "step-skeleton"), defaultProps(), fixedOpts()); err != nil {
		t.Fatalf("CreateStep() error: %v", err)
	}

	want := "{\n" +
		"  \"numExercises\": 0,\n" +
		"  \"estimatedCompletionTime\": 0,\n" +
		"  \"author\": \"samus.io\",\n" +
		"  \"authorGithubId\": \"samus-io\"\n" +
		"}"
	assertContent(t, fsys, "IDVALUE/properties.json", want)
	assertContent(t, fsys, "IDVALUE/en/README.md", "")
}

func TestCreateStep_PropertiesKeepHTMLCharacters(t *testing.T) {
	fsys := afero.NewMemMapFs()
	props := manifest.NewProperties("Tom & Jerry <lab>", "samus-io")

	if _, err := CreateStep(context.Background(), fsys, mustVariant(t, "step-creation"), props, fixedOpts()); err != nil {
		t.Fatalf("CreateStep() error: %v", err)
	}

	data, err := afero.ReadFile(fsys, "IDVALUE/properties.json")
	if err != nil {
		t.Fatalf("reading properties.json: %v", err)
	}
	if !strings.Contains(string(data), `"author": "Tom & Jerry <lab>"`) {
		t.Errorf("properties.json should keep & and < literal:\n%s", data)
	}
	if strings.HasSuffix(string(data), "\n") {
		t.Error("properties.json should not end with a newline")
	}
	assertProperties(t, fsys, props)
}

func TestCreateStep_CustomAuthor(t *testing.T) {
	fsys := afero.NewMemMapFs()
	props := manifest.NewProperties("Ada", "ada-l")

	if _, err := CreateStep(context.Background(), fsys, mustVariant(t, "step-creation"), props, fixedOpts()); err != nil {
		t.Fatalf("CreateStep() error: %v", err)
	}
	assertProperties(t, fsys, props)
}

func TestCreateStep_RootFailureStopsEverything(t *testing.T) {
	fsys := newFaultFs()
	fsys.failMkdir[fixedID] = os.ErrPermission
	log, logs := observedLogger()

	opts := fixedOpts()
	opts.Log = log
	res, err := CreateStep(context.Background(), fsys, mustVariant(t, "steps"), defaultProps(), opts)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("error %v should wrap os.ErrPermission", err)
	}

	assertList(t, "calls", fsys.Calls(), []string{"mkdir IDVALUE"})
	if len(res.Dirs) != 0 || len(res.Files) != 0 {
		t.Errorf("Result = %+v, want nothing created", res)
	}
	if res.ID != "" {
		t.Errorf("ID = %q, want empty", res.ID)
	}
	if n := logs.FilterMessage("step id already taken, drawing another").Len(); n != 0 {
		t.Errorf("permission error must not trigger a retry, got %d retries", n)
	}
}

func TestCreateStep_SiblingDirFailureKeepsOthers(t *testing.T) {
	fsys := newFaultFs()
	fsys.failMkdir["IDVALUE/es"] = os.ErrPermission
	log, logs := observedLogger()

	opts := fixedOpts()
	opts.Log = log
	res, err := CreateStep(context.Background(), fsys, mustVariant(t, "steps"), defaultProps(), opts)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "IDVALUE/es") {
		t.Errorf("error %q should name the failing path", err.Error())
	}

	assertDir(t, fsys, "IDVALUE/en")
	assertDir(t, fsys, "IDVALUE/docker")
	assertMissing(t, fsys, "IDVALUE/es")
	assertList(t, "Dirs", res.Dirs, []string{"IDVALUE", "IDVALUE/docker", "IDVALUE/en"})

	for _, call := range fsys.Calls() {
		if strings.HasPrefix(call, "write ") {
			t.Errorf("no file should be written after a directory failure, got %q", call)
		}
	}
	if len(res.Files) != 0 {
		t.Errorf("Files = %v, want none", res.Files)
	}

	failures := logs.FilterMessage("scaffold operation failed").All()
	if len(failures) != 1 {
		t.Fatalf("got %d failure logs, want 1", len(failures))
	}
	if got := failures[0].ContextMap()["path"]; got != "IDVALUE/es" {
		t.Errorf("logged path = %v, want IDVALUE/es", got)
	}
}

func TestCreateStep_MultipleFailuresCombined(t *testing.T) {
	fsys := newFaultFs()
	fsys.failMkdir["IDVALUE/es"] = os.ErrPermission
	fsys.failMkdir["IDVALUE/docker"] = errors.New("no space left on device")

	_, err := CreateStep(context.Background(), fsys, mustVariant(t, "steps"), defaultProps(), fixedOpts())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	msg := err.Error()
	for _, p := range []string{"IDVALUE/es", "IDVALUE/docker"} {
		if !strings.Contains(msg, p) {
			t.Errorf("combined error %q should mention %s", msg, p)
		}
	}
	assertDir(t, fsys, "IDVALUE/en")
}

func TestCreateStep_FileFailureKeepsSiblings(t *testing.T) {
	fsys := newFaultFs()
	fsys.failWrite["IDVALUE/en/README.md"] = os.ErrPermission

	res, err := CreateStep(context.Background(), fsys, mustVariant(t, "steps"), defaultProps(), fixedOpts())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("error %v should wrap os.ErrPermission", err)
	}

	assertProperties(t, fsys, defaultProps())
	assertContent(t, fsys, "IDVALUE/es/README.md", "")
	assertMissing(t, fsys, "IDVALUE/en/README.md")
	assertList(t, "Files", res.Files, []string{"IDVALUE/es/README.md", "IDVALUE/properties.json"})
	if res.Complete(mustVariant(t, "steps")) {
		t.Error("Complete() = true after a failed write")
	}
}

func TestCreateStep_CollisionDrawsFreshID(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.Mkdir("TAKEN", DirPerm); err != nil {
		t.Fatal(err)
	}
	log, logs := observedLogger()

	opts := Options{IDs: &stepid.Sequence{IDs: []string{"TAKEN", "FRESH"}}, Log: log}
	res, err := CreateStep(context.Background(), fsys, mustVariant(t, "step-creation"), defaultProps(), opts)
	if err != nil {
		t.Fatalf("CreateStep() error: %v", err)
	}
	if res.ID != "FRESH" {
		t.Errorf("ID = %q, want FRESH", res.ID)
	}
	assertContent(t, fsys, "FRESH/en/README.md", "# TODO\n")

	empty, err := afero.IsEmpty(fsys, "TAKEN")
	if err != nil {
		t.Fatal(err)
	}
	if !empty {
		t.Error("existing directory must not be touched")
	}
	if n := logs.FilterMessage("step id already taken, drawing another").Len(); n != 1 {
		t.Errorf("got %d retry logs, want 1", n)
	}
}

func TestCreateStep_CollisionAttemptsExhausted(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.Mkdir("TAKEN", DirPerm); err != nil {
		t.Fatal(err)
	}

	opts := Options{IDs: stepid.Fixed("TAKEN"), MaxAttempts: 2}
	_, err := CreateStep(context.Background(), fsys, mustVariant(t, "step-creation"), defaultProps(), opts)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, fs.ErrExist) {
		t.Errorf("error %v should wrap fs.ErrExist", err)
	}
	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("error %q should report the attempt count", err.Error())
	}
}

func TestCreateStep_GeneratorError(t *testing.T) {
	fsys := newFaultFs()
	opts := Options{IDs: &stepid.Sequence{}}

	if _, err := CreateStep(context.Background(), fsys, mustVariant(t, "step-creation"), defaultProps(), opts); err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls := fsys.Calls(); len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
}

func TestCreateStep_CanceledContextStopsAfterRoot(t *testing.T) {
	fsys := newFaultFs()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := CreateStep(ctx, fsys, mustVariant(t, "steps"), defaultProps(), fixedOpts())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	assertList(t, "Dirs", res.Dirs, []string{"IDVALUE"})
	assertList(t, "calls", fsys.Calls(), []string{"mkdir IDVALUE"})
}

func TestCreateStep_OnDisk(t *testing.T) {
	dir := t.TempDir()
	fsys := afero.NewBasePathFs(afero.NewOsFs(), dir)
	v := mustVariant(t, "steps")

	first, err := CreateStep(context.Background(), fsys, v, defaultProps(), Options{})
	if err != nil {
		t.Fatalf("CreateStep() error: %v", err)
	}
	second, err := CreateStep(context.Background(), fsys, v, defaultProps(), Options{})
	if err != nil {
		t.Fatalf("CreateStep() error: %v", err)
	}

	for _, res := range []*Result{first, second} {
		if !stepid.Valid(res.ID) {
			t.Errorf("generated id %q is not valid", res.ID)
		}
		data, err := os.ReadFile(filepath.Join(dir, res.ID, "en", "README.md"))
		if err != nil {
			t.Fatalf("reading README: %v", err)
		}
		if string(data) != "# \n\n" {
			t.Errorf("README content = %q, want %q", data, "# \n\n")
		}
	}
	if first.ID == second.ID {
		t.Errorf("two invocations produced the same id %q", first.ID)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d top-level entries, want 2", len(entries))
	}
}

// ─── Helpers ───────────────────────────────────────────────────────

func assertDir(t *testing.T, fsys afero.Fs, p string) {
	t.Helper()
	ok, err := afero.IsDir(fsys, p)
	if err != nil || !ok {
		t.Errorf("%s should be a directory (err=%v)", p, err)
	}
}

func assertMissing(t *testing.T, fsys afero.Fs, p string) {
	t.Helper()
	if ok, _ := afero.Exists(fsys, p); ok {
		t.Errorf("%s should not exist", p)
	}
}

func assertContent(t *testing.T, fsys afero.Fs, p, want string) {
	t.Helper()
	data, err := afero.ReadFile(fsys, p)
	if err != nil {
		t.Fatalf("reading %s: %v", p, err)
	}
	if string(data) != want {
		t.Errorf("%s = %q, want %q", p, data, want)
	}
}

func assertProperties(t *testing.T, fsys afero.Fs, want manifest.Properties) {
	t.Helper()
	data, err := afero.ReadFile(fsys, "IDVALUE/properties.json")
	if err != nil {
		t.Fatalf("reading properties.json: %v", err)
	}
	var got manifest.Properties
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("properties.json is not valid JSON: %v", err)
	}
	if got != want {
		t.Errorf("properties = %+v, want %+v", got, want)
	}
}

func assertList(t *testing.T, label string, got, want []string) {
	t.Helper()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}
