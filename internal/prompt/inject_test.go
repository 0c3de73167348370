package prompt

import (
	"strings"
	"testing"
)

func TestInject_ReplacesEveryOccurrence(t *testing.T) {
	inj, err := NewInjector(map[string]string{"TASK_SCHEMA": "{schema}"})
	if err != nil {
		t.Fatalf("NewInjector: %v", err)
	}

	for n := 0; n <= 5; n++ {
		text := strings.Repeat("before [TASK_SCHEMA] after\n", n)
		got := inj.Inject(text)

		if c := strings.Count(got, "{schema}"); c != n {
			t.Errorf("n=%d: %d replacements, want %d", n, c, n)
		}
		if strings.Contains(got, "[TASK_SCHEMA]") {
			t.Errorf("n=%d: token still present in %q", n, got)
		}
	}
}

func TestInject_UnknownTokenUntouched(t *testing.T) {
	inj, err := NewInjector(map[string]string{"TASK_SCHEMA": "{schema}"})
	if err != nil {
		t.Fatalf("NewInjector: %v", err)
	}

	text := "keep [NOT_A_REAL_TOKEN] and [task_schema] and [ TASK_SCHEMA ]"
	if got := inj.Inject(text); got != text {
		t.Errorf("Inject changed unknown tokens:\n got %q\nwant %q", got, text)
	}
}

func TestInject_Idempotent(t *testing.T) {
	inj, err := NewInjector(map[string]string{
		"TASK_SCHEMA": `{"items": ["a", "b"]}`,
		"OTHER":       "other",
	})
	if err != nil {
		t.Fatalf("NewInjector: %v", err)
	}

	once := inj.Inject("[TASK_SCHEMA] / [OTHER]")
	twice := inj.Inject(once)
	if once != twice {
		t.Errorf("second injection changed text:\n once %q\ntwice %q", once, twice)
	}
}

func TestNewInjector_RejectsSelfReferencingValue(t *testing.T) {
	_, err := NewInjector(map[string]string{
		"A": "contains [B]",
		"B": "plain",
	})
	if err == nil {
		t.Fatal("expected error for a replacement containing a token")
	}
}

func TestNewInjector_RejectsBadIdentifier(t *testing.T) {
	for _, id := range []string{"", "[X]", "A]"} {
		if _, err := NewInjector(map[string]string{id: "v"}); err == nil {
			t.Errorf("NewInjector(%q) succeeded, want error", id)
		}
	}
}

func TestInject_NilInjector(t *testing.T) {
	var inj *Injector
	if got := inj.Inject("[TASK_SCHEMA]"); got != "[TASK_SCHEMA]" {
		t.Errorf("nil injector changed text: %q", got)
	}
	if inj.Tokens() != nil {
		t.Error("nil injector reported tokens")
	}
}

func TestInjector_Tokens(t *testing.T) {
	inj, err := NewInjector(map[string]string{"B": "b", "A": "a"})
	if err != nil {
		t.Fatalf("NewInjector: %v", err)
	}
	if got := strings.Join(inj.Tokens(), ","); got != "[A],[B]" {
		t.Errorf("Tokens() = %s", got)
	}
}
