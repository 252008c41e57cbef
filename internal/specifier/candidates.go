package specifier

import (
	"path/filepath"
	"strings"
)

var typescriptImporterExtensions = map[string]struct{}{
	".ts": {}, ".tsx": {}, ".cts": {}, ".mts": {},
}

var aliasableEndings = []string{".js", ".jsx", ".mjs", ".cjs"}

// Candidates produces the ordered specifier list to probe for one request.
// Order encodes precedence: the literal specifier first, then the ./ root
// fragment fallback, then TypeScript extension-alias variants in the alias
// table's declared order.
func Candidates(classified Classified, importer string, extensionAlias map[string][]string) []string {
	candidates := []string{classified.Target}

	// Bare filenames handed in as graph roots (config inputs such as
	// "main.js") also get a ./-prefixed try.
	if importer == "" && !LooksPathLike(classified.Bare) {
		candidates = append(candidates, "./"+classified.Bare)
	}

	if isTypeScriptImporter(importer) {
		candidates = append(candidates, aliasVariants(classified.Target, extensionAlias)...)
	}
	return candidates
}

func isTypeScriptImporter(importer string) bool {
	if importer == "" {
		return false
	}
	_, ok := typescriptImporterExtensions[strings.ToLower(filepath.Ext(importer))]
	return ok
}

// aliasVariants swaps a .js/.jsx/.mjs/.cjs ending for each acceptable source
// extension the alias table declares for it. The original ending stays first
// in the candidate list; its own entry in the table is skipped.
func aliasVariants(target string, extensionAlias map[string][]string) []string {
	ending := aliasableEnding(target)
	if ending == "" {
		return nil
	}
	variants := make([]string, 0, len(extensionAlias[ending]))
	for _, alias := range extensionAlias[ending] {
		if alias == ending {
			continue
		}
		variants = append(variants, strings.TrimSuffix(target, ending)+alias)
	}
	return variants
}

func aliasableEnding(target string) string {
	for _, ending := range aliasableEndings {
		if strings.HasSuffix(target, ending) {
			return ending
		}
	}
	return ""
}
