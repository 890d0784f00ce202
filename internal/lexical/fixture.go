package lexical

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// fixtureYAML is a small bundled noun hierarchy, deep and broad enough to
// exercise the Lexical Resolver, Cluster Namer, and Arranger in tests and in
// the CLI demo without depending on a real WordNet install. Each entry's
// `id` follows the WNID convention (`n` + zero-padded offset) so fixtures
// read the same way a production WordNet-backed Graph would.
const fixtureYAML = `
- id: n00001740
  name: entity
  gloss: that which is perceived or known or inferred to have its own distinct existence
  hyponyms: [n00002137, n00003553]
- id: n00002137
  name: physical entity
  gloss: an entity that has physical existence
  hypernyms: [n00001740]
  hyponyms: [n00004258, n00021939]
- id: n00003553
  name: abstraction
  gloss: a general concept formed by extracting common features from specific examples
  hypernyms: [n00001740]
- id: n00004258
  name: living thing
  gloss: a living (or once living) entity
  hypernyms: [n00002137]
  hyponyms: [n00005041]
- id: n00005041
  name: organism
  gloss: a living thing that has (or can develop) the ability to act or function independently
  hypernyms: [n00004258]
  hyponyms: [n00006234, n00007846]
- id: n00006234
  name: animal
  gloss: a living organism characterized by voluntary movement
  hypernyms: [n00005041]
  hyponyms: [n01317541, n01862557, n01504437]
- id: n00007846
  name: plant
  gloss: a living organism lacking the power of locomotion
  hypernyms: [n00005041]
  hyponyms: [n13083023]
- id: n01317541
  name: domestic animal
  gloss: any of various animals domesticated by humans
  hypernyms: [n00006234]
  hyponyms: [n02084071, n02121808]
- id: n01862557
  name: mammal
  gloss: any warm-blooded vertebrate having the skin more or less covered with hair
  hypernyms: [n00006234]
  hyponyms: [n02084071, n02121808, n02391049]
- id: n01504437
  name: bird
  gloss: warm-blooded egg-laying vertebrates characterized by feathers and forelimbs modified as wings
  hypernyms: [n00006234]
  hyponyms: [n01503976]
- id: n02084071
  name: dog
  gloss: a member of the genus Canis that has been domesticated by man since prehistoric times
  hypernyms: [n01317541, n01862557]
  hyponyms: [n02085374, n02110958]
- id: n02121808
  name: cat
  gloss: feline mammal usually having thick soft fur
  hypernyms: [n01317541, n01862557]
  hyponyms: [n02122298]
- id: n02391049
  name: zebra
  gloss: any of several fleet black-and-white striped African equines
  hypernyms: [n01862557]
- id: n01503976
  name: sparrow
  gloss: any of several small dull-colored singing birds feeding on seeds or insects
  hypernyms: [n01504437]
- id: n02085374
  name: retriever
  gloss: a dog bred to retrieve game
  hypernyms: [n02084071]
- id: n02110958
  name: terrier
  gloss: any of several usually small tenacious vigorous dogs bred to hunt burrowing animals
  hypernyms: [n02084071]
- id: n02122298
  name: tabby
  gloss: a cat with a grey or tawny coat mottled with black
  hypernyms: [n02121808]
- id: n00021939
  name: object
  gloss: a tangible and visible entity
  hypernyms: [n00002137]
  hyponyms: [n03076708]
- id: n03076708
  name: container
  gloss: any object that can be used to hold things
  hypernyms: [n00021939]
  hyponyms: [n04557648]
- id: n04557648
  name: wardrobe
  gloss: a tall piece of furniture that provides storage space for clothes
  hypernyms: [n03076708]
- id: n13083023
  name: vascular plant
  gloss: green plant having a vascular system
  hypernyms: [n00007846]
`

// fixtureEntry is the wire shape of one fixtureYAML record before hypernym
// back-references are computed.
type fixtureEntry struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Gloss     string   `yaml:"gloss"`
	Hypernyms []string `yaml:"hypernyms"`
	Hyponyms  []string `yaml:"hyponyms"`
}

// NewFixtureGraph builds the bundled demo Graph.
func NewFixtureGraph() (*MapGraph, error) {
	var entries []fixtureEntry
	if err := yaml.Unmarshal([]byte(fixtureYAML), &entries); err != nil {
		return nil, fmt.Errorf("parse lexical fixture: %w", err)
	}

	senses := make([]Sense, 0, len(entries))
	for _, e := range entries {
		senses = append(senses, Sense{
			ID:        e.ID,
			Name:      e.Name,
			Gloss:     e.Gloss,
			Hypernyms: e.Hypernyms,
			Hyponyms:  e.Hyponyms,
		})
	}
	return NewMapGraph(senses), nil
}
