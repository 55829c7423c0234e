package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sesuite-go/sesuite/pkg/config"
	"github.com/sesuite-go/sesuite/pkg/sesuite"
	"github.com/sesuite-go/sesuite/pkg/sesuitetest"
	"github.com/sesuite-go/sesuite/pkg/soap"
)

const testToken = "Bearer cli"

// ─── Test infrastructure ────────────────────────────────────────────────────

// isolateConfig keeps the user's config files and SESUITE_* variables out of
// the test.
func isolateConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, env := range []string{config.EnvToken, config.EnvBaseURL, config.EnvUserID, config.EnvDownloadDir,
		config.EnvLogLevel, config.EnvLogFormat, config.EnvLogFile, config.EnvTimeout, config.EnvJSON, config.EnvConfig} {
		t.Setenv(env, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// resetFlags restores every flag of cmd and its children to its default so
// runs do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI with args and returns what it wrote to stdout and
// stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// stub starts a stub gateway and returns the flags pointing the CLI at it.
func stub(t *testing.T) (*sesuitetest.Server, []string) {
	t.Helper()
	srv := sesuitetest.NewServer(t, sesuitetest.WithToken(testToken))
	return srv, []string{"--base-url", srv.URL, "--token", testToken}
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out)
	}
	return v
}

// ─── Workflow commands ──────────────────────────────────────────────────────

func TestExecuteActivity(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)
	srv.Reply(soap.ActionExecuteActivity, sesuitetest.Success("activity executed"))

	out, _, err := run(t, append(flags, "execute-activity", "WF-1", "approval", "--action", "2")...)
	if err != nil {
		t.Fatalf("execute-activity: %v", err)
	}
	if strings.TrimSpace(out) != "activity executed" {
		t.Errorf("stdout = %q", out)
	}

	call, ok := srv.LastCall()
	if !ok {
		t.Fatal("no request reached the stub")
	}
	for tag, want := range map[string]string{"WorkflowID": "WF-1", "ActivityID": "approval", "ActionSequence": "2"} {
		if got, _ := call.Value(tag); got != want {
			t.Errorf("%s = %q, want %q", tag, got, want)
		}
	}
	if call.Header.Get("Authorization") != testToken {
		t.Errorf("Authorization = %q", call.Header.Get("Authorization"))
	}
}

func TestExecuteActivity_DefaultAction(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)

	if _, _, err := run(t, append(flags, "execute-activity", "WF-1", "approval")...); err != nil {
		t.Fatalf("execute-activity: %v", err)
	}
	call, _ := srv.LastCall()
	if got, _ := call.Value("ActionSequence"); got != "1" {
		t.Errorf("ActionSequence = %q, want 1", got)
	}
}

func TestExecuteActivity_Failure(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)
	srv.Reply(soap.ActionExecuteActivity, sesuitetest.Failure("activity is not enabled"))

	_, _, err := run(t, append(flags, "execute-activity", "WF-1", "approval")...)
	if !errors.Is(err, sesuite.ErrWorkflowOperationFailed) {
		t.Fatalf("expected workflow operation error, got %v", err)
	}
	if err.Error() != "workflow operation failed: activity is not enabled" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestExecuteActivity_HTTPError(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)
	srv.Reply(soap.ActionExecuteActivity, sesuitetest.HTTPError(http.StatusBadGateway, "upstream down"))

	_, _, err := run(t, append(flags, "execute-activity", "WF-1", "approval")...)
	if err == nil || err.Error() != "workflow operation failed (HTTP 502): upstream down" {
		t.Fatalf("error = %v", err)
	}
}

func TestExecuteActivity_NoToken(t *testing.T) {
	isolateConfig(t)
	srv, _ := stub(t)

	_, _, err := run(t, "--base-url", srv.URL, "execute-activity", "WF-1", "approval")
	if !errors.Is(err, errNoToken) {
		t.Fatalf("expected errNoToken, got %v", err)
	}
	if len(srv.Calls()) != 0 {
		t.Error("no request should be sent without a token")
	}
}

func TestExecuteActivity_TokenFromEnv(t *testing.T) {
	isolateConfig(t)
	srv, _ := stub(t)
	t.Setenv(config.EnvToken, testToken)
	t.Setenv(config.EnvBaseURL, srv.URL)

	if _, _, err := run(t, "execute-activity", "WF-1", "approval"); err != nil {
		t.Fatalf("execute-activity: %v", err)
	}
}

func TestExecuteSystemActivity(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)

	if _, _, err := run(t, append(flags, "execute-system-activity", "WF-1", "robot", "--order", "3")...); err != nil {
		t.Fatalf("execute-system-activity: %v", err)
	}
	call, _ := srv.LastCall()
	if call.Operation != string(soap.ActionExecuteSystemActivity) {
		t.Errorf("operation = %q", call.Operation)
	}
	if got, _ := call.Value("ActivityOrder"); got != "3" {
		t.Errorf("ActivityOrder = %q", got)
	}
}

func TestNewWorkflow(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)
	srv.Reply(soap.ActionNewWorkflowEditData, sesuitetest.Reply{Status: "SUCCESS", Detail: "created", RecordID: "WF-9"})

	out, _, err := run(t, append(flags, "--json", "--user", "jdoe",
		"new-workflow", "--process", "PURCHASE", "--title", "Laptop & dock",
		"--entity", "purchase", "--field", "amount=1200", "--field", "vendor=ACME",
		"--relationship", "items", "--relationship-field", "sku=LT-01")...)
	if err != nil {
		t.Fatalf("new-workflow: %v", err)
	}

	res := decode[Result](t, out)
	if res.Detail != "created" || res.RecordID != "WF-9" {
		t.Errorf("result = %+v", res)
	}

	call, _ := srv.LastCall()
	if got, _ := call.Value("WorkflowTitle"); got != "Laptop & dock" {
		t.Errorf("WorkflowTitle = %q", got)
	}
	if got, _ := call.Value("UserID"); got != "jdoe" {
		t.Errorf("UserID = %q", got)
	}
	if got := call.Values("EntityAttributeID"); len(got) != 2 || got[0] != "amount" || got[1] != "vendor" {
		t.Errorf("EntityAttributeID = %v", got)
	}
	if got, _ := call.Value("RelationshipID"); got != "items" {
		t.Errorf("RelationshipID = %q", got)
	}
}

func TestNewWorkflow_MissingRequiredFlag(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)

	_, _, err := run(t, append(flags, "new-workflow", "--process", "PURCHASE")...)
	if err == nil || !strings.Contains(err.Error(), `"title"`) {
		t.Fatalf("expected required flag error, got %v", err)
	}
	if len(srv.Calls()) != 0 {
		t.Error("no request should be sent")
	}
}

func TestNewWorkflow_InvalidField(t *testing.T) {
	isolateConfig(t)
	_, flags := stub(t)

	_, _, err := run(t, append(flags, "new-workflow", "--process", "P", "--title", "T", "--field", "amount")...)
	if err == nil || !strings.Contains(err.Error(), "expected id=value") {
		t.Fatalf("expected field parse error, got %v", err)
	}
}

func TestNewWorkflow_RelationshipFieldWithoutRelationship(t *testing.T) {
	isolateConfig(t)
	_, flags := stub(t)

	_, _, err := run(t, append(flags, "new-workflow", "--process", "P", "--title", "T", "--relationship-field", "sku=1")...)
	if err == nil || !strings.Contains(err.Error(), "requires --relationship") {
		t.Fatalf("expected relationship error, got %v", err)
	}
}

func TestAttach(t *testing.T) {
	dir := isolateConfig(t)
	srv, flags := stub(t)
	path := filepath.Join(dir, "invoice.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, append(flags, "attach", "WF-1", "upload", path)...)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if !strings.Contains(out, "record: ") {
		t.Errorf("stdout = %q", out)
	}

	call, _ := srv.LastCall()
	if got, _ := call.Value("FileName"); got != "invoice.txt" {
		t.Errorf("FileName = %q", got)
	}
	if got, _ := call.Value("FileContent"); got != "aGVsbG8=" {
		t.Errorf("FileContent = %q", got)
	}
}

func TestCancelWorkflow(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)

	if _, _, err := run(t, append(flags, "cancel-workflow", "WF-1", "--explanation", "duplicate")...); err != nil {
		t.Fatalf("cancel-workflow: %v", err)
	}
	call, _ := srv.LastCall()
	if got, _ := call.Value("Explanation"); got != "duplicate" {
		t.Errorf("Explanation = %q", got)
	}
}

func TestCancelWorkflow_PromptsForExplanation(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)

	old := promptForMissing
	promptForMissing = func() (string, error) { return "asked", nil }
	t.Cleanup(func() { promptForMissing = old })

	if _, _, err := run(t, append(flags, "cancel-workflow", "WF-1")...); err != nil {
		t.Fatalf("cancel-workflow: %v", err)
	}
	call, _ := srv.LastCall()
	if got, _ := call.Value("Explanation"); got != "asked" {
		t.Errorf("Explanation = %q", got)
	}
}

func TestCancelWorkflow_PromptError(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)

	old := promptForMissing
	promptForMissing = func() (string, error) { return "", errNoExplanation }
	t.Cleanup(func() { promptForMissing = old })

	_, _, err := run(t, append(flags, "cancel-workflow", "WF-1")...)
	if !errors.Is(err, errNoExplanation) {
		t.Fatalf("expected errNoExplanation, got %v", err)
	}
	if len(srv.Calls()) != 0 {
		t.Error("no request should be sent")
	}
}

func TestChildRecord(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)

	_, _, err := run(t, append(flags, "child-record", "WF-1", "--entity", "purchase",
		"--relationship", "items", "--field", "qty=2", "--relationship-field", "sku=LT-01")...)
	if err != nil {
		t.Fatalf("child-record: %v", err)
	}
	call, _ := srv.LastCall()
	if call.Operation != string(soap.ActionNewChildEntityRecord) {
		t.Errorf("operation = %q", call.Operation)
	}
	if got, _ := call.Value("EntityID"); got != "purchase" {
		t.Errorf("EntityID = %q", got)
	}
}

func TestChildRecord_RequiresRelationship(t *testing.T) {
	isolateConfig(t)
	_, flags := stub(t)

	_, _, err := run(t, append(flags, "child-record", "WF-1", "--entity", "purchase")...)
	if err == nil || !strings.Contains(err.Error(), "--relationship is required") {
		t.Fatalf("expected relationship error, got %v", err)
	}
}

// ─── Table and download ─────────────────────────────────────────────────────

func TestTableRecord(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)
	srv.Reply(soap.ActionGetTableRecord, sesuitetest.Reply{
		Status:  "SUCCESS",
		Detail:  "1 record",
		Records: map[string]string{"name": "ACME", "city": "Porto Alegre"},
	})

	out, _, err := run(t, append(flags, "--json", "table-record", "suppliers", "--field", "code=42")...)
	if err != nil {
		t.Fatalf("table-record: %v", err)
	}
	res := decode[TableResult](t, out)
	if res.Detail != "1 record" || res.Records["name"] != "ACME" || res.Records["city"] != "Porto Alegre" {
		t.Errorf("result = %+v", res)
	}
	if _, ok := res.Records["oid"]; ok {
		t.Error("envelope bookkeeping fields must be dropped")
	}

	call, _ := srv.LastCall()
	if call.Component != soap.Form {
		t.Errorf("component = %v, want form", call.Component)
	}
}

func TestTableRecord_Text(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)
	srv.Reply(soap.ActionGetTableRecord, sesuitetest.Reply{Status: "SUCCESS", Detail: "ok", Records: map[string]string{"b": "2", "a": "1"}})

	out, _, err := run(t, append(flags, "table-record", "t")...)
	if err != nil {
		t.Fatalf("table-record: %v", err)
	}
	a, b := strings.Index(out, "\na "), strings.Index(out, "\nb ")
	if a < 0 || b < 0 || a > b {
		t.Errorf("fields should be sorted:\n%s", out)
	}
}

func TestDownload(t *testing.T) {
	dir := isolateConfig(t)
	srv, flags := stub(t)
	srv.File("abc123", sesuitetest.File{Data: []byte("pdf bytes")})

	out, _, err := run(t, append(flags, "--json", "download", "abc123", "report.pdf", "--dir", "out")...)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	res := decode[DownloadResult](t, out)
	if res.Path != filepath.Join("out", "report.pdf") {
		t.Errorf("path = %q", res.Path)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "report.pdf"))
	if err != nil || string(data) != "pdf bytes" {
		t.Errorf("file = %q, %v", data, err)
	}
}

func TestDownload_UnsafeName(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)

	_, _, err := run(t, append(flags, "download", "abc", "../escape.txt")...)
	if !errors.Is(err, sesuite.ErrUnsafeFileName) {
		t.Fatalf("expected ErrUnsafeFileName, got %v", err)
	}
	if len(srv.Calls()) != 0 {
		t.Error("no request should be sent")
	}
}

// ─── Local commands ─────────────────────────────────────────────────────────

func TestRender(t *testing.T) {
	isolateConfig(t)

	out, _, err := run(t, "render", "cancelWorkflow", "--set", "WorkflowID=WF-1", "--set", "Explanation=a < b")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<urn:WorkflowID>WF-1</urn:WorkflowID>") {
		t.Errorf("missing workflow id:\n%s", out)
	}
	if !strings.Contains(out, "a &lt; b") {
		t.Errorf("value not escaped:\n%s", out)
	}
	if strings.Contains(out, "UserID") {
		t.Errorf("empty optional element rendered:\n%s", out)
	}
}

func TestRender_TableFieldsPretty(t *testing.T) {
	isolateConfig(t)

	out, _, err := run(t, "render", "getTableRecord", "--set", "TableID=suppliers", "--field", "code=42", "--pretty")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<urn:TableFieldID>code</urn:TableFieldID>") {
		t.Errorf("missing table field:\n%s", out)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	isolateConfig(t)

	if _, _, err := run(t, "render", "nope"); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestTemplates(t *testing.T) {
	isolateConfig(t)

	out, _, err := run(t, "--json", "templates")
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	infos := decode[[]TemplateInfo](t, out)

	var found bool
	for _, info := range infos {
		if info.Action == string(soap.ActionGetTableRecord) {
			found = true
			if info.SOAPAction != "urn:fm#getTableRecord" {
				t.Errorf("SOAPAction = %q", info.SOAPAction)
			}
		}
	}
	if !found {
		t.Errorf("getTableRecord missing from %+v", infos)
	}
}

func TestConfigCommand(t *testing.T) {
	dir := isolateConfig(t)
	if err := os.WriteFile(filepath.Join(dir, ".sesuiterc.yaml"), []byte("downloadDir: files\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "--json", "--token", "secret", "--base-url", "http://127.0.0.1:1", "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if strings.Contains(out, "secret") {
		t.Error("token leaked into config output")
	}
	res := decode[ConfigOutput](t, out)
	if !res.HasToken {
		t.Error("hasToken = false")
	}
	if res.Sources["baseUrl"] != config.SourceFlag || res.Sources["downloadDir"] != config.SourceLocal {
		t.Errorf("sources = %v", res.Sources)
	}
	if res.Config.DownloadDir != "files" {
		t.Errorf("downloadDir = %q", res.Config.DownloadDir)
	}
}

func TestConfigCommand_YAML(t *testing.T) {
	isolateConfig(t)

	out, _, err := run(t, "--token", "secret", "config", "--yaml")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if strings.Contains(out, "secret") || !strings.Contains(out, "baseUrl:") || !strings.Contains(out, config.DefaultBaseURL) {
		t.Errorf("unexpected yaml:\n%s", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	isolateConfig(t)

	_, _, err := run(t, "--base-url", "ftp://nowhere", "version")
	if err == nil || !strings.Contains(err.Error(), "http(s) URL") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	isolateConfig(t)

	out, _, err := run(t, "--json", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	v := decode[VersionOutput](t, out)
	if v.Go == "" || v.OS == "" || v.Arch == "" {
		t.Errorf("version = %+v", v)
	}
}

func TestDebugLogging(t *testing.T) {
	isolateConfig(t)
	_, flags := stub(t)

	_, stderr, err := run(t, append(flags, "--log-level", "debug", "--log-format", "json",
		"cancel-workflow", "WF-1", "--explanation", "x")...)
	if err != nil {
		t.Fatalf("cancel-workflow: %v", err)
	}
	if !strings.Contains(stderr, `"msg":"soap call"`) {
		t.Errorf("expected soap call log, got:\n%s", stderr)
	}
	if strings.Contains(stderr, testToken) {
		t.Error("token leaked into logs")
	}
}

// ─── Stub command ───────────────────────────────────────────────────────────

func TestStubHandler(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "f.bin")
	if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })
	stubReplies = []string{"executeActivity=done"}
	stubFails = []string{"cancelWorkflow=closed"}
	stubFiles = []string{"h1=" + path}

	h, err := stubHandler()
	if err != nil {
		t.Fatalf("stubHandler: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	srv := ts.URL

	err = sesuite.With("", func(c *sesuite.Client) error {
		detail, err := c.ExecuteActivity(context.Background(), "WF", "A", 1)
		if err != nil || detail != "done" {
			t.Errorf("ExecuteActivity = %q, %v", detail, err)
		}
		_, err = c.CancelWorkflow(context.Background(), "", "WF", "x")
		if !errors.Is(err, sesuite.ErrWorkflowOperationFailed) {
			t.Errorf("CancelWorkflow error = %v", err)
		}
		return nil
	}, sesuite.WithBaseURL(srv))
	if err != nil {
		t.Fatal(err)
	}

	got := filepath.Join(dir, "out")
	if _, err := sesuite.Download(context.Background(), "", "h1", "f.bin",
		sesuite.WithDownloadBaseURL(srv), sesuite.WithDownloadDir(got)); err != nil {
		t.Fatalf("Download: %v", err)
	}
}

func TestStubHandler_UnknownAction(t *testing.T) {
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })
	stubReplies = []string{"deleteEverything=ok"}

	if _, err := stubHandler(); err == nil || !strings.Contains(err.Error(), "unknown action") {
		t.Fatalf("expected unknown action error, got %v", err)
	}
}

func TestServeStub_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	var banner bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- serveStub(ctx, &banner, ln, sesuitetest.NewHandler())
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/apigateway/v1/file/missing")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serveStub: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stub did not stop")
	}
}

func TestAttach_Glob(t *testing.T) {
	dir := isolateConfig(t)
	srv, flags := stub(t)
	for _, name := range []string{"scans/a.pdf", "scans/2024/b.pdf", "scans/notes.txt"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(name), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	out, _, err := run(t, append(flags, "--json", "attach", "WF-1", "upload", "scans/**/*.pdf")...)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	results := decode[[]AttachResult](t, out)
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}

	var names []string
	for _, c := range srv.Calls() {
		name, _ := c.Value("FileName")
		names = append(names, name)
	}
	if strings.Join(names, ",") != "b.pdf,a.pdf" && strings.Join(names, ",") != "a.pdf,b.pdf" {
		t.Errorf("attached %v", names)
	}
}

func TestAttach_GlobNoMatch(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)

	_, _, err := run(t, append(flags, "attach", "WF-1", "upload", "*.pdf")...)
	if err == nil || !strings.Contains(err.Error(), "no files match") {
		t.Fatalf("expected no match error, got %v", err)
	}
	if len(srv.Calls()) != 0 {
		t.Error("no request should be sent")
	}
}

func TestJSONPath(t *testing.T) {
	isolateConfig(t)
	srv, flags := stub(t)
	srv.Reply(soap.ActionNewWorkflowEditData, sesuitetest.Reply{Status: "SUCCESS", Detail: "created", RecordID: "WF-9"})

	out, _, err := run(t, append(flags, "--jsonpath", "$.recordId", "new-workflow", "--process", "P", "--title", "T")...)
	if err != nil {
		t.Fatalf("new-workflow: %v", err)
	}
	if out != "WF-9\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestJSONPath_Invalid(t *testing.T) {
	isolateConfig(t)

	_, _, err := run(t, "--jsonpath", "$.[", "version")
	if err == nil || !strings.Contains(err.Error(), "invalid --jsonpath") {
		t.Fatalf("expected jsonpath error, got %v", err)
	}
}

func TestConfigCommand_TokenExpiry(t *testing.T) {
	isolateConfig(t)
	exp := time.Date(2031, 5, 6, 7, 8, 9, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "--json", "--token", "Bearer "+token, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	res := decode[ConfigOutput](t, out)
	if res.TokenExpiresAt == nil || !res.TokenExpiresAt.Equal(exp) {
		t.Errorf("tokenExpiresAt = %v, want %s", res.TokenExpiresAt, exp)
	}
}

func TestExpiredTokenWarns(t *testing.T) {
	isolateConfig(t)
	srv, _ := stub(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}

	// The stub requires testToken, so the call itself fails with 401.
	_, stderr, _ := run(t, "--base-url", srv.URL, "--token", token, "cancel-workflow", "WF-1", "--explanation", "x")
	if !strings.Contains(stderr, "token has expired") {
		t.Errorf("expected expiry warning, got:\n%s", stderr)
	}
}

func TestStubHandler_Scenario(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte(`replies:
  - action: cancelWorkflow
    when: WorkflowID == "WF-closed"
    status: FAILURE
    detail: already closed
`), 0o600); err != nil {
		t.Fatal(err)
	}
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })
	stubScenario = path

	h, err := stubHandler()
	if err != nil {
		t.Fatalf("stubHandler: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	err = sesuite.With("", func(c *sesuite.Client) error {
		if _, err := c.CancelWorkflow(context.Background(), "", "WF-closed", "x"); !errors.Is(err, sesuite.ErrWorkflowOperationFailed) {
			t.Errorf("WF-closed: %v", err)
		}
		if _, err := c.CancelWorkflow(context.Background(), "", "WF-open", "x"); err != nil {
			t.Errorf("WF-open: %v", err)
		}
		return nil
	}, sesuite.WithBaseURL(ts.URL))
	if err != nil {
		t.Fatal(err)
	}
}
