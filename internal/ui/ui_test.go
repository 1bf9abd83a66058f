package ui

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
)

func TestSection_headerOnContextChange(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, &out, false)
	a := c.Section("a")
	b := c.Section("b")

	a.Printf("   one")
	a.Printf("   two")
	b.Printf("   three")
	a.Printf("   four")

	want := ">>> a\n   one\n   two\n>>> b\n   three\n>>> a\n   four\n"
	if out.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestSection_writers(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewConsole(&out, &errOut, false)
	s := c.Section("pkg")

	_, _ = io.WriteString(s.Stdout(), "hello\n")
	_, _ = io.WriteString(s.Stderr(), "oops\n")

	if out.String() != ">>> pkg\nhello\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if errOut.String() != "oops\n" {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestSection_touch(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, &out, false)
	s := c.Section("pkg")
	s.Touch()
	s.Touch()
	if out.String() != ">>> pkg\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestConsole_PrintfResetsContext(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, &out, false)
	s := c.Section("pkg")
	s.Printf("x")
	c.Printf("plain")
	s.Printf("y")
	if strings.Count(out.String(), ">>> pkg") != 2 {
		t.Errorf("expected header twice, got %q", out.String())
	}
}

func TestSection_concurrentLinesStayWhole(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, &out, false)
	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := c.Section(name)
			for range 20 {
				s.Printf("line from %s", name)
			}
		}()
	}
	wg.Wait()

	current := ""
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if h, ok := strings.CutPrefix(line, ">>> "); ok {
			current = h
			continue
		}
		if line != "line from "+current {
			t.Fatalf("line %q printed under header %q", line, current)
		}
	}
}

func TestName_plainWithoutColor(t *testing.T) {
	c := NewConsole(io.Discard, io.Discard, false)
	if got := c.Name("pkg"); got != "pkg" {
		t.Errorf("Name = %q", got)
	}
}

func TestProgress_Done(t *testing.T) {
	var buf bytes.Buffer
	p := NewConsole(&buf, &buf, false).Progress(3)

	p.Done("task A")
	p.Done("task B")
	p.Done("task C")

	out := buf.String()
	for _, want := range []string{"[1/3] task A", "[2/3] task B", "[3/3] task C"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing progress line %q: %s", want, out)
		}
	}
}

func TestTable_render(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "NAME", "VALUE", "OK")
	tbl.Row("alpha", 42, true)
	tbl.Row("beta", 0, false)
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header + 2 rows), got %d", len(lines))
	}
	if lines[0] != "NAME   VALUE  OK" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "alpha  42     true" {
		t.Errorf("row 1 = %q", lines[1])
	}
}

func TestTable_emptyTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "A", "B")
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("expected 1 line (header only), got %d", len(lines))
	}
}
