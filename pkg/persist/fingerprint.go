package persist

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"rfcore/pkg/schematic"
	"rfcore/pkg/sweep"
)

// Fingerprint derives a cache key from a circuit's topology and a sweep
// config: any change to either value invalidates the cache for that key.
func Fingerprint(circuit *schematic.Circuit, cfg sweep.Config) (string, error) {
	doc, err := schematic.EncodeDocument(circuit)
	if err != nil {
		return "", fmt.Errorf("persist: encoding circuit for fingerprint: %w", err)
	}
	h := sha256.New()
	h.Write(doc)
	fmt.Fprintf(h, "|%g|%g|%d|%s", cfg.FreqStart, cfg.FreqEnd, cfg.FreqPoints, cfg.Scale)
	if cfg.Z0 != nil {
		fmt.Fprintf(h, "|%g|%g", cfg.Z0.Re, cfg.Z0.Im)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
