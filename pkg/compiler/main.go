// Package compiler translates the toy language (let declarations and print
// statements over Int, Float, Bool, String and Char) into C source text.
//
// Pipeline: source → Lex → Parse → Generate → C text
//
// Types are inferred by a Resolver consulted during generation; there is no
// separate checking pass.
package compiler
