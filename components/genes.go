package components

// NumGenes is the length of the gene vector.
const NumGenes = 5

// Genes is the heritable gene vector. Every value lies in [0,1].
type Genes struct {
	Speed  float64
	Vision float64
	Attack float64
	Repro  float64
	Size   float64
}

// Values returns the genes in canonical order: speed, vision, attack, repro, size.
func (g Genes) Values() [NumGenes]float64 {
	return [NumGenes]float64{g.Speed, g.Vision, g.Attack, g.Repro, g.Size}
}

// GenesFromValues builds a gene vector from canonical-order values, clamping each to [0,1].
func GenesFromValues(v [NumGenes]float64) Genes {
	return Genes{
		Speed:  clamp01(v[0]),
		Vision: clamp01(v[1]),
		Attack: clamp01(v[2]),
		Repro:  clamp01(v[3]),
		Size:   clamp01(v[4]),
	}
}

// GeneNames returns the names of the genes in canonical order.
func GeneNames() [NumGenes]string {
	return [NumGenes]string{"speed", "vision", "attack", "repro", "size"}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
