// Package samples holds built-in German example texts for trying out the
// scorer without a source of one's own.
package samples

import (
	"fmt"
	"sort"
	"strings"
)

// Sample is one example text
type Sample struct {
	Name  string // lookup key, lowercase
	Title string
	Text  string
}

var all = []Sample{
	{
		Name:  "skandal",
		Title: "Sensationsmeldung mit Empörung",
		Text: `UNGLAUBLICH: Was die Regierung jetzt verschweigt!!!
Ein riesiger Skandal erschüttert das ganze Land. Die Elite hat uns alle verraten und die Mainstream-Medien schweigen.
Insider berichten, dass alles nur eine Lüge war. Man sagt, die Wahrheit wird unterdrückt. Teilen, bevor es gelöscht wird!!!`,
	},
	{
		Name:  "wunder",
		Title: "Außergewöhnliche Behauptung",
		Text: `Du wirst nicht glauben, was Forscher entdeckt haben
Ein geheimes Wundermittel heilt angeblich jede Krankheit in nur drei Tagen. Die Pharmaindustrie will das verhindern!
Angeblich wurde das Mittel von Außerirdischen überbracht. Quellen werden nicht genannt.`,
	},
	{
		Name:  "statistik",
		Title: "Sachliche Meldung mit Quellen",
		Text: `Bevölkerung wächst leicht
Laut einer Mitteilung des Statistischen Bundesamtes lebten Ende 2023 rund 84,7 Millionen Menschen in Deutschland.
Die Studie stützt sich auf Daten der Einwohnermeldeämter. Wie die Behörde weiter mitteilte, stieg die Zahl im Vergleich zum Vorjahr um 0,3 Prozent.
Quelle: https://www.destatis.de/DE/Presse/Pressemitteilungen/2024/06/PD24_242_12411.html`,
	},
	{
		Name:  "bericht",
		Title: "Nüchterner Bericht",
		Text: `Stadtrat beschließt Haushalt
Der Stadtrat hat am Dienstag den Haushalt für das Jahr 2025 verabschiedet. Nach Angaben der Verwaltung sind Ausgaben von 412 Millionen Euro geplant.
Ein Sprecher der Stadt erklärte, die Investitionen in Schulen würden gegenüber 2024 um 12 Prozent erhöht. Die Opposition stimmte dagegen.`,
	},
	{
		Name:  "kurz",
		Title: "Sehr kurzer Text",
		Text:  "Schock! Alles gelogen!",
	},
}

// All returns every sample in display order
func All() []Sample {
	out := make([]Sample, len(all))
	copy(out, all)
	return out
}

// Names returns the sample names sorted alphabetically
func Names() []string {
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// Get looks a sample up by name, case-insensitively
func Get(name string) (Sample, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, s := range all {
		if s.Name == key {
			return s, nil
		}
	}
	return Sample{}, fmt.Errorf("unknown sample %q (available: %s)", name, strings.Join(Names(), ", "))
}
