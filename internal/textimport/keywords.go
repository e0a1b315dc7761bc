package textimport

// Stem-boundary keyword tables, ordered most specific first. The premise
// extractor splits the last premise item at the first table entry it finds,
// so new phrasings are handled by extending a table, never by touching the
// splitting code.

var multilineStemKeywords = []string{
	"yargılarından",
	"ifadelerinden",
	"durumlarından",
	"özelliklerinden",
	"bilgilerinden",
	"gelişmelerinden",
	"hangileri",
	"hangisi",
}

var inlineStemKeywords = []string{
	"Yukarıdakilerden",
	"yargılarından",
	"ifadelerinden",
	"durumlarından",
	"özelliklerinden",
	"bilgilerinden",
	"gelişmelerinden",
	"dönemlerinin",
	"devletlerinden",
	"hangilerinde",
	"hangisinde",
	"hangisine",
	"hangileri",
	"hangisi",
}
