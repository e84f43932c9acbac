package mdterm

import (
	"strings"
	"testing"
)

func expect(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("\ngot:  %q\nwant: %q", got, want)
	}
}

func TestPlainText(t *testing.T) {
	expect(t, ConvertWith("Hello world", Plain), "Hello world")
}

func TestEmphasisUsesStyles(t *testing.T) {
	styles := Styles{
		Bold:   func(s string) string { return "<b>" + s + "</b>" },
		Italic: func(s string) string { return "<i>" + s + "</i>" },
		Code:   func(s string) string { return "`" + s + "`" },
		Strike: func(s string) string { return "~" + s + "~" },
	}
	expect(t, ConvertWith("a **b** *c* `d` ~~e~~", styles), "a <b>b</b> <i>c</i> `d` ~e~")
}

func TestPlainDropsMarkup(t *testing.T) {
	expect(t, ConvertWith("**four** is `2+2`", Plain), "four is 2+2")
}

func TestHeadingAndParagraph(t *testing.T) {
	expect(t, ConvertWith("# Title\n\nBody text.", Plain), "Title\n\nBody text.")
}

func TestFencedCodeBlockIsIndented(t *testing.T) {
	got := ConvertWith("```go\nfmt.Println(4)\nx := 1\n```", Plain)
	expect(t, got, "    fmt.Println(4)\n    x := 1")
}

func TestLinkKeepsURL(t *testing.T) {
	expect(t, ConvertWith("[docs](https://example.com)", Plain), "docs (https://example.com)")
}

func TestAutoLink(t *testing.T) {
	expect(t, ConvertWith("<https://example.com>", Plain), "https://example.com")
}

func TestUnorderedList(t *testing.T) {
	expect(t, ConvertWith("- one\n- two", Plain), "• one\n• two")
}

func TestOrderedListHonorsStart(t *testing.T) {
	expect(t, ConvertWith("3. three\n4. four", Plain), "3. three\n4. four")
}

func TestNestedList(t *testing.T) {
	got := ConvertWith("- outer\n  - inner\n- next", Plain)
	for _, want := range []string{"• outer", "\n  • inner", "\n• next"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestBlockquote(t *testing.T) {
	got := ConvertWith("> quoted", Plain)
	expect(t, got, "│ quoted")
}

func TestThematicBreak(t *testing.T) {
	got := ConvertWith("above\n\n---\n\nbelow", Plain)
	if !strings.Contains(got, "──────────") {
		t.Errorf("missing rule: %q", got)
	}
}

func TestTable(t *testing.T) {
	got := ConvertWith("| Name | Age |\n|------|-----|\n| Ann | 30 |\n| Bob | 25 |", Plain)
	for _, want := range []string{"1.\n", "  Name: Ann", "  Age: 30", "2.\n", "  Name: Bob"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "|") {
		t.Errorf("table pipes leaked: %q", got)
	}
}

func TestTaskList(t *testing.T) {
	got := ConvertWith("- [x] done\n- [ ] todo", Plain)
	if !strings.Contains(got, "[x]") || !strings.Contains(got, "[ ]") {
		t.Errorf("missing checkboxes: %q", got)
	}
	if !strings.Contains(got, "done") || !strings.Contains(got, "todo") {
		t.Errorf("missing task text: %q", got)
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	in := "# Answer\n\n**4**, because:\n\n1. two\n2. plus two"
	if Convert(in) != Convert(in) {
		t.Fatal("Convert is not deterministic")
	}
}

func TestDefaultStylesKeepText(t *testing.T) {
	got := Convert("**bold** *slanted* `code` ~~gone~~\n\n> quoted")
	for _, want := range []string{"bold", "slanted", "code", "gone", "quoted"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "**") || strings.Contains(got, "~~") {
		t.Errorf("markup left in output: %q", got)
	}
}
