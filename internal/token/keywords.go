package token

var keywords = map[string]Kind{
	"fn":     KwFn,
	"async":  KwAsync,
	"atomic": KwAtomic,
	"class":  KwClass,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"loop":   KwLoop,
	"true":   KwTrue,
	"false":  KwFalse,
	"share":  KwShare,
	"lease":  KwLease,
	"give":   KwGive,
	"await":  KwAwait,
	"shared": KwShared,
	"var":    KwVar,
	"break":  KwBreak,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые - только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
