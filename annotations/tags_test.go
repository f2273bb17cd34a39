package annotations

import "testing"

func TestParseStructTags(t *testing.T) {
	tags := ParseStructTags("`bson:\"name,omitempty\" magnet:\"doc=\\\"quoted\\\"\" json:\"n\"`")

	if v, ok := tags.GetTagValue("bson"); !ok || v != "name,omitempty" {
		t.Errorf("bson tag = %q, %v", v, ok)
	}
	if v, _ := tags.GetTagValue("magnet"); v != `doc="quoted"` {
		t.Errorf("magnet tag = %q", v)
	}
	if v, ok := tags.GetTagValue("yaml", "json"); !ok || v != "n" {
		t.Errorf("alias lookup = %q, %v", v, ok)
	}
	if _, ok := tags.GetTagValue("xml"); ok {
		t.Error("unexpected xml tag")
	}
}

func TestBsonTagParams(t *testing.T) {
	tests := []struct {
		tag  string
		want []string
	}{
		{"-", []string{"skip"}},
		{"name", []string{"rename=name"}},
		{"name,omitempty", []string{"rename=name", "omitempty"}},
		{",inline", []string{"inline"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := BsonTagParams(tt.tag)
			if len(got) != len(tt.want) {
				t.Fatalf("BsonTagParams(%q) = %v, want %v", tt.tag, got, tt.want)
			}
			for i, p := range got {
				s := p.Key
				if p.Value != nil {
					s += "=" + p.Value.Value
				}
				if s != tt.want[i] {
					t.Errorf("param %d = %s, want %s", i, s, tt.want[i])
				}
			}
		})
	}
}

func TestMagnetTagParams(t *testing.T) {
	params := MagnetTagParams(`min_incl=0, max_excl=2.5, doc=A name, rename="x,y", tuple`)
	if len(params) != 5 {
		t.Fatalf("got %d params: %v", len(params), params)
	}

	want := []struct {
		key   string
		kind  LitKind
		value string
	}{
		{"min_incl", LitInt, "0"},
		{"max_excl", LitFloat, "2.5"},
		{"doc", LitString, "A name"},
		{"rename", LitString, "x,y"},
	}
	for i, w := range want {
		p := params[i]
		if p.Key != w.key || p.Value == nil || p.Value.Kind != w.kind || p.Value.Value != w.value {
			t.Errorf("param %d = %+v, want %+v", i, p, w)
		}
	}
	if !params[4].IsWord() || params[4].Key != "tuple" {
		t.Errorf("tuple should be a word, got %+v", params[4])
	}
}
