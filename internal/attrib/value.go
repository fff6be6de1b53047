package attrib

// Value is a 4-wide attribute lane: a position, normal, color, weight group,
// or similar, stored uniformly regardless of semantic so every stream
// algorithm here is semantic-agnostic.
type Value [4]float32
