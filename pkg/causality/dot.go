package causality

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// WriteDot renders the graph in graphviz dot format: one labelled node per entry followed by
// the edge to its source.
func (gr *Graph) WriteDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("digraph log {\n")
	bw.WriteString("rankdir=\"RL\";\n")
	for _, position := range gr.entries {
		n := gr.nodes[position]
		writeNode(bw, n)
		if parent, ok := gr.Parent(position); ok {
			bw.WriteString(strconv.FormatInt(position, 10))
			bw.WriteString(" -> ")
			bw.WriteString(strconv.FormatInt(parent.Position, 10))
			bw.WriteString(";\n")
		}
	}
	bw.WriteString("\n}")
	return bw.Flush()
}

// label lines are separated by a literal \n, which dot turns into line breaks
func writeNode(bw *bufio.Writer, n *Node) {
	bw.WriteString(strconv.FormatInt(n.Position, 10))
	bw.WriteString(" [label=\"")
	bw.WriteString(`\n`)
	bw.WriteString(n.RecordType)
	bw.WriteString(`\n`)
	bw.WriteString(n.ValueType)
	bw.WriteString(`\n`)
	bw.WriteString(n.Intent)
	if n.ElementType != nil {
		bw.WriteString(`\n`)
		bw.WriteString(*n.ElementType)
	}
	if n.ProcessInstanceKey != nil {
		bw.WriteString(`\nPI Key: `)
		bw.WriteString(strconv.FormatInt(*n.ProcessInstanceKey, 10))
	}
	if n.ProcessDefinitionKey != nil {
		bw.WriteString(`\nPD Key: `)
		bw.WriteString(strconv.FormatInt(*n.ProcessDefinitionKey, 10))
	}
	bw.WriteString(`\nKey: `)
	bw.WriteString(strconv.FormatInt(n.Key, 10))
	bw.WriteString("\"];\n")
}

func (gr *Graph) Dot() string {
	var buf bytes.Buffer
	_ = gr.WriteDot(&buf)
	return buf.String()
}
