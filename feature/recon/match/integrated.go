package match

import "github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"

// IntegratedKey derives a unified row's canonical identity. The reference
// dataset is authoritative for naming: its normalized identity wins when
// non-empty, then the comparison identity, then a fixed sentinel so the
// integrated key is never empty.
func IntegratedKey(refIdentity, compIdentity any) string {
	if k := NormalizeKey(refIdentity); k != "" {
		return k
	}
	if k := NormalizeKey(compIdentity); k != "" {
		return k
	}
	return models.UnknownKey
}
