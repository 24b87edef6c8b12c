package offsets

import "testing"

func TestDefaultRegistryHasBothPresets(t *testing.T) {
	for _, v := range []string{"UE4.25", "UE4.25-obfuscated"} {
		if _, ok := Default.Lookup(v); !ok {
			t.Errorf("Default registry missing engine version %q", v)
		}
	}
}

func TestLookupMissingFails(t *testing.T) {
	if _, ok := Default.Lookup("UE5.0"); ok {
		t.Fatal("expected lookup of unregistered engine version to fail")
	}
}

func TestRegisterOverwrites(t *testing.T) {
	r := Registry{}
	r.Register(Config{EngineVersion: "x", NameEntry: NameEntry{Stride: 2}})
	r.Register(Config{EngineVersion: "x", NameEntry: NameEntry{Stride: 4}})
	c, ok := r.Lookup("x")
	if !ok || c.NameEntry.Stride != 4 {
		t.Fatalf("Register did not overwrite: %+v", c)
	}
}
