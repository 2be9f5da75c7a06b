package artifact

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/offerpath/offerpath-backend/internal/domain"
	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
)

const fencedJD = "Here you go:\n```json\n{\"role_title\":\"Backend Engineer\",\"seniority\":\"mid\",\"must_have_skills\":[\"go\"],\"keywords\":[\"go\",\"postgres\"]}\n```"

func TestDecode_FencedEqualsRaw(t *testing.T) {
	raw := `{"role_title":"Backend Engineer","seniority":"mid","must_have_skills":["go"],"keywords":["go","postgres"]}`

	fromFenced, err := Decode(domain.KindJDExtract, fencedJD)
	if err != nil {
		t.Fatalf("fenced decode: %v", err)
	}
	fromRaw, err := Decode(domain.KindJDExtract, raw)
	if err != nil {
		t.Fatalf("raw decode: %v", err)
	}
	if string(fromFenced) != string(fromRaw) {
		t.Fatalf("fenced and raw decode diverge:\n%s\n%s", fromFenced, fromRaw)
	}
}

func TestDecode_SalvagesSurroundingProse(t *testing.T) {
	raw := "Sure! The extracted data is {\"role_title\":\"SRE\",\"seniority\":\"senior\"} — let me know if you need more."

	got, err := Decode(domain.KindJDExtract, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var v domain.JDExtract
	if err := json.Unmarshal(got, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.RoleTitle != "SRE" || v.Seniority != "senior" {
		t.Fatalf("unexpected extract: %#v", v)
	}
}

func TestDecode_RejectsUnknownSeniority(t *testing.T) {
	raw := `{"role_title":"Architect","seniority":"expert"}`

	_, err := Decode(domain.KindJDExtract, raw)
	if err == nil {
		t.Fatalf("expected error for seniority outside the enumeration")
	}
	if !apperrors.IsMalformedOutput(err) {
		t.Fatalf("expected MalformedOutputError, got %T", err)
	}
	if !strings.Contains(err.Error(), "expert") {
		t.Fatalf("error should name the bad value: %v", err)
	}
}

func TestDecode_DropsUnknownFields(t *testing.T) {
	raw := `{"role_title":"Dev","seniority":"junior","confidence":0.9,"notes":"extra"}`

	got, err := Decode(domain.KindJDExtract, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Contains(string(got), "confidence") || strings.Contains(string(got), "notes") {
		t.Fatalf("unknown fields should be dropped: %s", got)
	}
}

func TestDecode_UnsalvageableHardKind(t *testing.T) {
	_, err := Decode(domain.KindResumeParse, "I could not process that resume, sorry.")
	if !apperrors.IsMalformedOutput(err) {
		t.Fatalf("expected MalformedOutputError, got %v", err)
	}
}

func TestDecode_EmptyResumeParseIsMalformed(t *testing.T) {
	_, err := Decode(domain.KindResumeParse, `{"identity":{},"skills":{},"experience":[],"projects":[]}`)
	if !apperrors.IsMalformedOutput(err) {
		t.Fatalf("an all-empty parse must be rejected, got %v", err)
	}
}

func TestDefault_SoftKindsOnly(t *testing.T) {
	if _, ok := Default(domain.KindJDExtract); ok {
		t.Fatalf("hard kinds must not have a default")
	}
	b, ok := Default(domain.KindEvidenceMap)
	if !ok {
		t.Fatalf("evidence map should have a default")
	}
	var em domain.EvidenceMap
	if err := json.Unmarshal(b, &em); err != nil {
		t.Fatalf("default should be valid JSON: %v", err)
	}
	if em.Evidence == nil || em.Missing == nil {
		t.Fatalf("default should carry empty, non-nil collections: %#v", em)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{}\n```":  "{}",
		"```\n[1,2]\n```":   "[1,2]",
		"  {\"a\":1}  ":     `{"a":1}`,
		"```json\n{\"a\":1}": `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripFences(in); got != want {
			t.Fatalf("StripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
