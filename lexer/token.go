package lexer

import "fmt"

// Kind is the lexical category of a token.
type Kind int

const (
	EOF Kind = iota
	KEYWORD
	TYPE
	OPERATOR
	ASSIGN
	NUMBER
	STRING
	IDENTIFIER
	SYMBOL
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case KEYWORD:
		return "KEYWORD"
	case TYPE:
		return "TYPE"
	case OPERATOR:
		return "OPERATOR"
	case ASSIGN:
		return "ASSIGN"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case IDENTIFIER:
		return "IDENTIFIER"
	case SYMBOL:
		return "SYMBOL"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Pos locates a token in the source. Line and Col are 1-based.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

type Token struct {
	Kind   Kind
	Lexeme string
	// Keyword holds the canonical spelling for KEYWORD and TYPE tokens, so
	// aliases compare equal to the keyword they stand for.
	Keyword Keyword
	Pos     Pos
}

// End is the offset just past the token's last byte.
func (t Token) End() int {
	return t.Pos.Offset + len(t.Lexeme)
}

// Is reports whether the token is the given keyword or type name.
func (t Token) Is(kw Keyword) bool {
	return (t.Kind == KEYWORD || t.Kind == TYPE) && t.Keyword == kw
}

// IsSymbol reports whether the token is the given punctuation symbol.
func (t Token) IsSymbol(s string) bool {
	return t.Kind == SYMBOL && t.Lexeme == s
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q at %s", t.Kind, t.Lexeme, t.Pos)
}

type Keyword string

const (
	KwInicio         Keyword = "INICIO"
	KwFim            Keyword = "FIM"
	KwPrograma       Keyword = "PROGAMA"
	KwImplementacao  Keyword = "IMPLEMENTACAO"
	KwExecucao       Keyword = "EXECUCAO"
	KwPrincipal      Keyword = "PRINCIPAL"
	KwModulo         Keyword = "MODULO"
	KwVariavel       Keyword = "variavel"
	KwTipo           Keyword = "tipo"
	KwEscreva        Keyword = "escreva"
	KwPergunte       Keyword = "pergunte"
	KwExecutar       Keyword = "EXECUTAR"
	KwSe             Keyword = "SE"
	KwSenao          Keyword = "SENAO"
	KwEnquanto       Keyword = "ENQUANTO"
	KwFaca           Keyword = "FACA"
	KwEntao          Keyword = "ENTAO"
	KwFuncao         Keyword = "funcao"
	KwRetorne        Keyword = "retorne"
	KwGrupo          Keyword = "GRUPO"
	KwImporte        Keyword = "importe"
	KwPara           Keyword = "PARA"
	KwAte            Keyword = "ATE"
	KwPasso          Keyword = "PASSO"
	KwRepita         Keyword = "REPITA"
	KwArquivoInicio  Keyword = "ARQUIVO-INICIO"
	KwArquivoEscreva Keyword = "ARQUIVO-ESCREVA"
	KwArquivoLeia    Keyword = "ARQUIVO-LEIA"
)

const (
	TypeInteiro  Keyword = "inteiro"
	TypeTexto    Keyword = "texto"
	TypeDecimal  Keyword = "decimal"
	TypeBooleano Keyword = "booleano"
	TypeLista    Keyword = "lista"
	TypeGrupo    Keyword = "grupo"
)

var keywords = map[string]Keyword{
	"INICIO":          KwInicio,
	"FIM":             KwFim,
	"PROGAMA":         KwPrograma,
	"PROGRAMA":        KwPrograma,
	"IMPLEMENTACAO":   KwImplementacao,
	"EXECUCAO":        KwExecucao,
	"PRINCIPAL":       KwPrincipal,
	"MODULO":          KwModulo,
	"variavel":        KwVariavel,
	"tipo":            KwTipo,
	"escreva":         KwEscreva,
	"pergunte":        KwPergunte,
	"EXECUTAR":        KwExecutar,
	"SE":              KwSe,
	"SENAO":           KwSenao,
	"ENQUANTO":        KwEnquanto,
	"FACA":            KwFaca,
	"FAÇA":            KwFaca,
	"ENTAO":           KwEntao,
	"funcao":          KwFuncao,
	"retorne":         KwRetorne,
	"GRUPO":           KwGrupo,
	"importe":         KwImporte,
	"PARA":            KwPara,
	"ATE":             KwAte,
	"PASSO":           KwPasso,
	"REPITA":          KwRepita,
	"ARQUIVO-INICIO":  KwArquivoInicio,
	"ARQUIVO-ESCREVA": KwArquivoEscreva,
	"ARQUIVO-LEIA":    KwArquivoLeia,

	// English aliases
	"begin":          KwInicio,
	"end":            KwFim,
	"program":        KwPrograma,
	"implementation": KwImplementacao,
	"execution":      KwExecucao,
	"main":           KwPrincipal,
	"module":         KwModulo,
	"var":            KwVariavel,
	"type":           KwTipo,
	"write":          KwEscreva,
	"ask":            KwPergunte,
	"run":            KwExecutar,
	"if":             KwSe,
	"else":           KwSenao,
	"while":          KwEnquanto,
	"do":             KwFaca,
	"then":           KwEntao,
	"function":       KwFuncao,
	"return":         KwRetorne,
	"group":          KwGrupo,
	"import":         KwImporte,
	"for":            KwPara,
	"to":             KwAte,
	"until":          KwAte,
	"step":           KwPasso,
	"repeat":         KwRepita,
}

var typeNames = map[string]Keyword{
	"inteiro":  TypeInteiro,
	"texto":    TypeTexto,
	"decimal":  TypeDecimal,
	"booleano": TypeBooleano,
	"lista":    TypeLista,
	"grupo":    TypeGrupo,
}

// LookupWord classifies a word as a keyword, a type name or an identifier.
func LookupWord(word string) (Kind, Keyword) {
	if kw, ok := keywords[word]; ok {
		return KEYWORD, kw
	}
	if t, ok := typeNames[word]; ok {
		return TYPE, t
	}
	return IDENTIFIER, ""
}
