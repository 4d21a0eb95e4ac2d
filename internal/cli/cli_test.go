package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/saju/internal/adapters/http/api"
	"github.com/okian/saju/internal/adapters/repository"
	service "github.com/okian/saju/internal/app"
	"github.com/okian/saju/internal/domain/saju"
	"github.com/okian/saju/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCalc_Text(t *testing.T) {
	out, err := execute(t, "calc", "1900-01-01", "09:30")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"기해 정축 갑진 기사", "己亥 丁丑 甲辰 己巳", "시주:   기사", "목 1, 화 2, 토 4, 금 0, 수 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCalc_NoTime(t *testing.T) {
	out, err := execute(t, "calc", "2000-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "시주:   -") || !strings.Contains(out, "띠:     용") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCalc_JSON(t *testing.T) {
	out, err := execute(t, "calc", "--json", "1988-09-17", "14:05")
	if err != nil {
		t.Fatal(err)
	}
	var r saju.Result
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if r.Saju != "무진 신유 을사 계미" {
		t.Errorf("saju = %q", r.Saju)
	}
}

func TestCalc_Errors(t *testing.T) {
	if _, err := execute(t, "calc", "1999-02-29"); !errors.Is(err, saju.ErrInvalidDate) {
		t.Errorf("invalid date: got %v", err)
	}
	if _, err := execute(t, "calc"); err == nil {
		t.Error("expected an error without arguments")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestIngest_SQLite(t *testing.T) {
	subjects := writeFile(t, "subjects.json", `{"celebrities":[
		{"name":"아이유","birth_date":"1993-05-16","category":"singer"},
		{"name":"BTS 뷔","birth_date":"1995-12-30","birth_time":"07:10"}
	]}`)
	more := writeFile(t, "more.yaml", "- name: 유재석\n  birth_date: \"1972-08-14\"\n")
	dsn := filepath.Join(t.TempDir(), "charts.db")

	out, err := execute(t, "ingest", "--driver", "sqlite", "--dsn", dsn, "--workers", "2", subjects, more)
	if err != nil {
		t.Fatalf("ingest: %v\n%s", err, out)
	}
	if !strings.Contains(out, "3 total, 3 stored, 0 failed") {
		t.Errorf("unexpected summary:\n%s", out)
	}

	ctx := context.Background()
	store, err := repository.Open(ctx, repository.DriverSQLite, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = store.Close() }()
	n, err := store.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("count = %d, %v", n, err)
	}
	c, err := store.Get(ctx, "BTS 뷔_1995-12-30")
	if err != nil {
		t.Fatal(err)
	}
	if c.HourPillar == "" || c.BirthTime != "07:10" {
		t.Errorf("stored chart lost its hour: %+v", c)
	}
}

func TestIngest_Failures(t *testing.T) {
	subjects := writeFile(t, "bad.json", `[
		{"name":"ok","birth_date":"2000-03-15"},
		{"name":"bad","birth_date":"2000-02-30"}
	]`)

	out, err := execute(t, "ingest", "--driver", "memory", "--json", subjects)
	if !errors.Is(err, ErrIngestFailures) {
		t.Fatalf("got %v", err)
	}
	var sum service.Summary
	if err := json.Unmarshal([]byte(out), &sum); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if sum.Stored != 1 || sum.Failed != 1 || sum.Errors[0].Name != "bad" {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestIngest_BadInput(t *testing.T) {
	if _, err := execute(t, "ingest", "--driver", "memory", writeFile(t, "x.csv", "a,b")); err == nil {
		t.Error("expected an error for an unsupported format")
	}
	if _, err := execute(t, "ingest", "--driver", "sqlite", writeFile(t, "x.json", "[]")); err == nil {
		t.Error("expected an error for sqlite without a dsn")
	}
}

func TestLoadgen(t *testing.T) {
	svc := service.New(service.WithWorkerCount(1))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer svc.Stop()
	mux := http.NewServeMux()
	api.NewServer(svc, svc, 100).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := execute(t, "loadgen", "--url", srv.URL, "--count", "25", "--workers", "4", "--seed", "9")
	if err != nil {
		t.Fatalf("loadgen: %v\n%s", err, out)
	}
	if !strings.Contains(out, "25 ok, 0 duplicate, 0 failed, 0 violations") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
