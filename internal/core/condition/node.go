package condition

// Node is an element of a condition's expression tree. The set of node
// kinds is closed: Tree, Group, BinaryOperation, UnaryOperation,
// Expression and Leaf.
type Node interface {
	node()
}

// Tree is the root wrapper. It always holds exactly one child.
type Tree struct {
	Child Node
}

// Group is a parenthesized sub-tree.
type Group struct {
	Child Node
}

// BinaryOperation joins two nodes with and/or.
type BinaryOperation struct {
	Operator Operator
	Left     Node
	Right    Node
}

// UnaryOperation negates a node.
type UnaryOperation struct {
	Operator Operator
	Operand  Node
}

// Expression applies a predicate to its operands. Before translation it
// holds Predicate and two leaves, field then value. After translation
// Format is set and Operands holds one leaf per format placeholder.
type Expression struct {
	Predicate string
	Format    string
	Operands  []Node
}

// Leaf holds a Field marker, a Literal marker or a bound value.
type Leaf struct {
	Value interface{}
}

func (*Tree) node()            {}
func (*Group) node()           {}
func (*BinaryOperation) node() {}
func (*UnaryOperation) node()  {}
func (*Expression) node()      {}
func (*Leaf) node()            {}

// translated reports whether the expression went through the translator.
func (e *Expression) translated() bool {
	return e.Format != ""
}
