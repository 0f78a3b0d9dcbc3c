package invoice

import (
	"fmt"
	"math/rand/v2"

	"github.com/MOR6969/vape-bill/pkg/enums"
)

const (
	referenceMin  = 100000
	referenceSpan = 900000
)

// NewReference returns "<INV|QTY>-nnnnnn" with a six-digit number in [100000, 999999].
func NewReference(kind enums.ExportKind) string {
	return fmt.Sprintf("%s-%d", kind.ReferencePrefix(), referenceMin+rand.IntN(referenceSpan))
}
