// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package token defines data structures representing tscheck lexical tokens.
package token

import "fmt"

// Token is a tscheck lexical token.
type Token int

const (
	Unknown Token = iota
	Comment

	// Constants

	Ident    // e.g. funcName
	Number   // e.g. 1001, 10.01
	Bigint   // e.g. 10n
	String   // e.g. "a string", 'a string'
	Template // e.g. `a ${} string`, carried as raw cooked parts

	// Expression operators

	Add            // +
	Sub            // -
	Mul            // *
	Div            // /
	Rem            // %
	Pow            // **
	LogicalAnd     // &&
	LogicalOr      // ||
	Nullish        // ??
	Amp            // &
	Pipe           // |
	Caret          // ^
	Equal          // ==
	StrictEqual    // ===
	NotEqual       // !=
	StrictNotEqual // !==
	Less           // <
	Greater        // >
	LessEqual      // <=
	GreaterEqual   // >=
	Assign         // =
	Not            // !
	Tilde          // ~
	Question       // ?
	QuestionDot    // ?.
	Arrow          // =>
	Ellipsis       // ...
	Hash           // #

	// Statement operators

	Inc       // ++
	Dec       // --
	AddAssign // +=
	SubAssign // -=
	MulAssign // *=
	DivAssign // /=
	RemAssign // %=

	LeftParen    // (
	LeftBracket  // [
	LeftBrace    // {
	RightParen   // )
	RightBracket // ]
	RightBrace   // }
	Comma        // ,
	Period       // .
	Semicolon    // ;
	Colon        // :
	Backtick     // `

	// Keywords

	Break
	Case
	Class
	Const
	Continue
	Default
	Delete
	Do
	Else
	Enum
	Export
	Extends
	False
	For
	Function
	If
	Import
	In
	Instanceof
	New
	Null
	Return
	Super
	Switch
	This
	Throw
	True
	Typeof
	Var
	Void
	While
	Yield

	// Contextual keywords. The scanner produces Ident for these; the
	// parser promotes them by spelling where the grammar allows.

	Abstract
	As
	Async
	Await
	Declare
	Get
	Implements
	Interface
	Keyof
	Let
	Namespace
	Module
	Of
	Private
	Protected
	Public
	Readonly
	Require
	Satisfies
	Set
	Static
	Type
	Undefined
)

var tokens = map[string]Token{
	"unknown":  Unknown,
	"comment":  Comment,
	"ident":    Ident,
	"number":   Number,
	"bigint":   Bigint,
	"string":   String,
	"template": Template,

	"+":   Add,
	"-":   Sub,
	"*":   Mul,
	"/":   Div,
	"%":   Rem,
	"**":  Pow,
	"&&":  LogicalAnd,
	"||":  LogicalOr,
	"??":  Nullish,
	"&":   Amp,
	"|":   Pipe,
	"^":   Caret,
	"==":  Equal,
	"===": StrictEqual,
	"!=":  NotEqual,
	"!==": StrictNotEqual,
	"<":   Less,
	">":   Greater,
	"<=":  LessEqual,
	">=":  GreaterEqual,
	"=":   Assign,
	"!":   Not,
	"~":   Tilde,
	"?":   Question,
	"?.":  QuestionDot,
	"=>":  Arrow,
	"...": Ellipsis,
	"#":   Hash,

	"++": Inc,
	"--": Dec,
	"+=": AddAssign,
	"-=": SubAssign,
	"*=": MulAssign,
	"/=": DivAssign,
	"%=": RemAssign,

	"(": LeftParen,
	"[": LeftBracket,
	"{": LeftBrace,
	")": RightParen,
	"]": RightBracket,
	"}": RightBrace,
	",": Comma,
	".": Period,
	";": Semicolon,
	":": Colon,
	"`": Backtick,

	"break":      Break,
	"case":       Case,
	"class":      Class,
	"const":      Const,
	"continue":   Continue,
	"default":    Default,
	"delete":     Delete,
	"do":         Do,
	"else":       Else,
	"enum":       Enum,
	"export":     Export,
	"extends":    Extends,
	"false":      False,
	"for":        For,
	"function":   Function,
	"if":         If,
	"import":     Import,
	"in":         In,
	"instanceof": Instanceof,
	"new":        New,
	"null":       Null,
	"return":     Return,
	"super":      Super,
	"switch":     Switch,
	"this":       This,
	"throw":      Throw,
	"true":       True,
	"typeof":     Typeof,
	"var":        Var,
	"void":       Void,
	"while":      While,
	"yield":      Yield,

	"abstract":   Abstract,
	"as":         As,
	"async":      Async,
	"await":      Await,
	"declare":    Declare,
	"get":        Get,
	"implements": Implements,
	"interface":  Interface,
	"keyof":      Keyof,
	"let":        Let,
	"namespace":  Namespace,
	"module":     Module,
	"of":         Of,
	"private":    Private,
	"protected":  Protected,
	"public":     Public,
	"readonly":   Readonly,
	"require":    Require,
	"satisfies":  Satisfies,
	"set":        Set,
	"static":     Static,
	"type":       Type,
	"undefined":  Undefined,
}

var tokenStrings = make(map[Token]string, len(tokens))

func init() {
	for s, t := range tokens {
		tokenStrings[t] = s
	}
}

// reserved is the set of words the scanner itself turns into keyword
// tokens. Contextual keywords (as, keyof, let, …) stay Ident at scan
// time and are promoted by the parser.
var reserved = map[string]Token{}

func init() {
	for s, t := range tokens {
		if t >= Break && t <= Yield {
			reserved[s] = t
		}
	}
}

// Keyword returns the reserved-word token for s, or Unknown.
func Keyword(s string) Token {
	return reserved[s]
}

// Contextual returns the contextual-keyword token for s, or Unknown.
func Contextual(s string) Token {
	if t, ok := tokens[s]; ok && t > Yield {
		return t
	}
	return Unknown
}

func (t Token) String() string {
	if s, ok := tokenStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("token.Token(%d)", int(t))
}
