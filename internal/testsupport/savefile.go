package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/sjson"

	"reposave/internal/container"
)

// PlayerSeed describes one player of a generated save document.
type PlayerSeed struct {
	Identity    string
	DisplayName string
	Health      int
	// Upgrades are applied in order so the generated document has a
	// deterministic key layout.
	Upgrades []UpgradeSeed
}

// UpgradeSeed is one upgrade map entry of a PlayerSeed.
type UpgradeSeed struct {
	Name  string
	Level int
}

// SaveSeed describes a complete generated save document.
type SaveSeed struct {
	Level    int
	Currency int
	Lives    int
	TeamName string
	Players  []PlayerSeed
}

// Document renders the seed into the JSON layout the game uses.
func (s SaveSeed) Document(t testing.TB) container.Document {
	t.Helper()

	doc := []byte(`{}`)
	set := func(path string, value any) {
		var err error
		doc, err = sjson.SetBytes(doc, path, value)
		if err != nil {
			t.Fatalf("seed document %s: %v", path, err)
		}
	}

	set("teamName.value", s.TeamName)
	for _, p := range s.Players {
		set("playerNames.value.:"+p.Identity, p.DisplayName)
	}
	set("dictionaryOfDictionaries.value.runStats.level", s.Level)
	set("dictionaryOfDictionaries.value.runStats.currency", s.Currency)
	set("dictionaryOfDictionaries.value.runStats.lives", s.Lives)
	for _, p := range s.Players {
		set("dictionaryOfDictionaries.value.playerHealth.:"+p.Identity, p.Health)
	}
	for _, p := range s.Players {
		for _, u := range p.Upgrades {
			set("dictionaryOfDictionaries.value.playerUpgrade"+u.Name+".:"+p.Identity, u.Level)
		}
	}
	return container.Document(doc)
}

// WriteContainer encodes doc into a save container at path, creating parent
// directories as needed.
func WriteContainer(t testing.TB, path string, doc container.Document) {
	t.Helper()

	fileBytes, err := container.Encode(doc)
	if err != nil {
		t.Fatalf("encode container: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, fileBytes, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
