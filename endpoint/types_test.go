package endpoint

import (
	"strings"
	"testing"

	"github.com/goliatone/go-rmw/core"
)

func TestTypeHash_StringAndParse(t *testing.T) {
	hash := TypeHash{Version: 1}
	hash.Value[0] = 0xab
	rendered := hash.String()
	if !strings.HasPrefix(rendered, "RIHS01_ab") || len(rendered) != len("RIHS01_")+64 {
		t.Fatalf("unexpected rendering %q", rendered)
	}
	parsed, err := ParseTypeHash(rendered)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != hash {
		t.Fatalf("expected %+v, got %+v", hash, parsed)
	}
	if (TypeHash{}).String() != "" {
		t.Fatalf("expected zero hash to render empty")
	}
	for _, bad := range []string{"RIHS1_00", "XXXX01_00", "RIHS01_zz", "RIHS01_" + strings.Repeat("0", 10)} {
		if _, err := ParseTypeHash(bad); !core.IsKind(err, core.KindInvalidArgument) {
			t.Fatalf("expected invalid argument for %q, got %v", bad, err)
		}
	}
}

func TestGID_StringAndParse(t *testing.T) {
	gid := NewGID()
	parsed, err := ParseGID(gid.String())
	if err != nil {
		t.Fatalf("parse gid: %v", err)
	}
	if parsed != gid {
		t.Fatalf("expected %s, got %s", gid, parsed)
	}
	if _, err := ParseGID("abc"); !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if NewGID() == gid {
		t.Fatalf("expected distinct gids")
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{"client": KindClient, "SERVER": KindServer, "": KindInvalid}
	for input, want := range cases {
		got, err := ParseKind(input)
		if err != nil || got != want {
			t.Fatalf("parse %q: expected %v, got %v (%v)", input, want, got, err)
		}
	}
	if _, err := ParseKind("publisher"); err == nil {
		t.Fatalf("expected unknown kind to fail")
	}
}
