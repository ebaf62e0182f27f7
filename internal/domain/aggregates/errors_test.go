package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Code: CodeNotFound}, "not_found"},
		{&Error{Code: CodeNotFound, Op: "Collab.Fund"}, "Collab.Fund (not_found)"},
		{&Error{Code: CodeNotFound, Message: "no contract"}, "no contract (not_found)"},
		{&Error{Code: CodeNotFound, Op: "Collab.Fund", Message: "no contract"}, "Collab.Fund: no contract (not_found)"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error(): want=%q got=%q", tc.want, got)
		}
	}
}

func TestCodeMatching(t *testing.T) {
	cause := errors.New("unique constraint failed")
	err := fmt.Errorf("invite: %w", Wrap(CodeConflict, "Collab.Invite", cause))

	if !IsCode(err, CodeConflict) || IsCode(err, CodeNotFound) || IsCode(err, "") {
		t.Fatalf("IsCode mismatch for %v", err)
	}
	if !errors.Is(err, &Error{Code: CodeConflict}) {
		t.Fatalf("errors.Is should match by code")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should stay reachable")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors carry no code")
	}
	if Wrap(CodeInternal, "x", nil) != nil {
		t.Fatalf("wrapping nil must stay nil")
	}
}

func TestRecode(t *testing.T) {
	err := Wrap(CodeConflict, "Collab.Invite", errors.New("duplicate key"))

	got := Recode(err, CodeConflict, CodeAlreadyExists, "creator already invited")
	if !IsCode(got, CodeAlreadyExists) {
		t.Fatalf("want already_exists, got %v", got)
	}
	if CodeOf(got) == CodeOf(err) {
		t.Fatalf("recode should change the code")
	}
	if same := Recode(err, CodeNotFound, CodeAlreadyExists, ""); same != err {
		t.Fatalf("non-matching code must pass through")
	}
}
