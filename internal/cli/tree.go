package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/sieve/internal/filter"
)

// node is the dump form of one filter expression.
type node struct {
	Kind      string `json:"kind" yaml:"kind"` // true, native, compare, and, or, nand, nor
	Key       string `json:"key,omitempty" yaml:"key,omitempty"`
	Operand   string `json:"operand,omitempty" yaml:"operand,omitempty"`
	Operator  string `json:"operator,omitempty" yaml:"operator,omitempty"`
	ValueKind string `json:"value_kind,omitempty" yaml:"value_kind,omitempty"`
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
	Children  []node `json:"children,omitempty" yaml:"children,omitempty"`
}

// treeCompiler implements filter.Compiler[node].
type treeCompiler struct{}

func (treeCompiler) True() (node, error) { return node{Kind: "true"}, nil }

func (treeCompiler) Native(key string) (node, error) {
	return node{Kind: "native", Key: key}, nil
}

func (treeCompiler) Compare(operand string, op filter.Operator, value filter.Value) (node, error) {
	n := node{Kind: "compare", Operand: operand, Operator: op.String(), Value: value.String()}
	switch value.(type) {
	case filter.Null:
		n.ValueKind = "null"
	case filter.Text:
		n.ValueKind = "text"
	case filter.Number:
		n.ValueKind = "number"
	case filter.Date:
		n.ValueKind = "date"
	}
	return n, nil
}

func (treeCompiler) Logic(kind filter.LogicKind, children []node) (node, error) {
	return node{Kind: kind.String(), Children: children}, nil
}

func dumpTree(e filter.Expr) node {
	// treeCompiler never fails
	n, _ := filter.Compile[node](e, treeCompiler{})
	return n
}

// writeTree prints n one node per line, children indented by two spaces.
func writeTree(w io.Writer, n node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case "true":
		fmt.Fprintf(w, "%strue\n", indent)
	case "native":
		fmt.Fprintf(w, "%snative %s\n", indent, n.Key)
	case "compare":
		operand := n.Operand
		if operand == "" {
			operand = "*"
		}
		line := fmt.Sprintf("%scompare %s %s %s", indent, operand, n.Operator, n.ValueKind)
		if n.ValueKind != "null" {
			line += " " + n.Value
		}
		fmt.Fprintln(w, line)
	default:
		fmt.Fprintf(w, "%s%s\n", indent, n.Kind)
		for _, c := range n.Children {
			writeTree(w, c, depth+1)
		}
	}
}
