// Package api provides the public API for the IR variable rewriter.
//
// This package is intended for programmatic use of the rewriter on IR text.
// For CLI usage, see cmd/irsubst.
package api

import (
	"fmt"

	"github.com/HugoDaniel/irsubst/internal/driver"
)

// Substitution describes one rewrite: every use of Var is replaced with the
// expression With.
type Substitution struct {
	// Var is the name of the variable to replace.
	Var string `json:"var"`

	// With is the replacement expression in IR text, such as "io * 4 + ii".
	With string `json:"with"`

	// Tensor limits the rewrite to index expressions of accesses to the
	// named tensor. Empty means replace everywhere, and also rename loops
	// over Var when With is a plain variable.
	Tensor string `json:"tensor,omitempty"`
}

// RewriteOptions controls rewriting.
type RewriteOptions struct {
	// Form selects the IR taxonomy: "expr" (default) or "stmt".
	Form string `json:"form,omitempty"`

	// Substitutions are applied in order.
	Substitutions []Substitution `json:"substitutions"`

	// Strict reports statements the rewriter cannot enter (let, if,
	// alloc, free, schedule and call statements in stmt form) as errors.
	// When false they are passed through unchanged.
	Strict bool `json:"strict"`

	// MatchIdentity matches variables by identity rather than by name.
	MatchIdentity bool `json:"matchIdentity,omitempty"`

	// MinifyWhitespace prints the result without optional whitespace.
	MinifyWhitespace bool `json:"minifyWhitespace,omitempty"`
}

// RewriteResult contains the rewrite output.
type RewriteResult struct {
	// Code is the rewritten IR text. On error it is the unchanged source.
	Code string `json:"code"`

	// Errors contains any errors encountered, as "line:column: message"
	// when the error has a source location.
	Errors []string `json:"errors"`

	// Warnings name statements passed through without rewriting when
	// Strict is false.
	Warnings []string `json:"warnings,omitempty"`

	// Substitutions is the number of substitutions applied.
	Substitutions int `json:"substitutions"`

	// OriginalSize is the size of the input in bytes.
	OriginalSize int `json:"originalSize"`

	// OutputSize is the size of the output in bytes.
	OutputSize int `json:"outputSize"`
}

// CollectOptions controls index collection.
type CollectOptions struct {
	// Form selects the IR taxonomy: "expr" (default) or "stmt".
	Form string `json:"form,omitempty"`

	// Tensor is the tensor whose accesses are collected.
	Tensor string `json:"tensor"`
}

// CollectResult contains the collected index lists.
type CollectResult struct {
	// Indices holds one printed index list per access, like "[i, j + 1]",
	// in depth-first order.
	Indices []string `json:"indices"`

	// Errors contains any errors encountered.
	Errors []string `json:"errors"`
}

// Rewrite applies substitutions to IR source text.
func Rewrite(source string, opts RewriteOptions) RewriteResult {
	form, err := driver.ParseForm(opts.Form)
	if err != nil {
		return RewriteResult{
			Code:         source,
			Errors:       []string{err.Error()},
			OriginalSize: len(source),
			OutputSize:   len(source),
		}
	}

	subs := make([]driver.Substitution, len(opts.Substitutions))
	for i, s := range opts.Substitutions {
		subs[i] = driver.Substitution{Var: s.Var, With: s.With, Tensor: s.Tensor}
	}

	result := driver.New(driver.Options{
		Form:             form,
		Substitutions:    subs,
		Strict:           opts.Strict,
		MatchIdentity:    opts.MatchIdentity,
		MinifyWhitespace: opts.MinifyWhitespace,
	}).Rewrite(source)

	return RewriteResult{
		Code:          result.Code,
		Errors:        convertErrors(result.Errors),
		Warnings:      warningsOf(result.Warnings),
		Substitutions: result.Stats.Substitutions,
		OriginalSize:  result.Stats.OriginalSize,
		OutputSize:    result.Stats.OutputSize,
	}
}

// Substitute is Rewrite with a single substitution in expression form,
// failing on statements the rewriter cannot enter.
func Substitute(source, variable, with, tensor string) RewriteResult {
	return Rewrite(source, RewriteOptions{
		Substitutions: []Substitution{{Var: variable, With: with, Tensor: tensor}},
		Strict:        true,
	})
}

// Collect returns the index lists of every access to a tensor.
func Collect(source string, opts CollectOptions) CollectResult {
	form, err := driver.ParseForm(opts.Form)
	if err != nil {
		return CollectResult{Indices: []string{}, Errors: []string{err.Error()}}
	}

	result := driver.New(driver.Options{Form: form}).Collect(source, opts.Tensor)
	return CollectResult{
		Indices: result.Indices,
		Errors:  convertErrors(result.Errors),
	}
}

func convertErrors(errs []driver.Error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		if e.Line > 0 {
			out[i] = fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
		} else {
			out[i] = e.Message
		}
	}
	return out
}

func warningsOf(warnings []driver.Error) []string {
	if len(warnings) == 0 {
		return nil
	}
	return convertErrors(warnings)
}
