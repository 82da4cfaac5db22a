package ir

// ItemKind tags the variant held by an Item.
type ItemKind uint8

const (
	ItemFunction ItemKind = iota + 1
	ItemClass
)

func (k ItemKind) String() string {
	switch k {
	case ItemFunction:
		return "function"
	case ItemClass:
		return "class"
	default:
		return "unknown"
	}
}

// Item is a top-level definition: a Function or a Class.
type Item struct {
	Kind     ItemKind
	function Function
	class    Class
}

// FunctionItem wraps f as an Item.
func FunctionItem(f Function) Item { return Item{Kind: ItemFunction, function: f} }

// ClassItem wraps c as an Item.
func ClassItem(c Class) Item { return Item{Kind: ItemClass, class: c} }

// Function returns the function held by a function item.
func (it Item) Function() (Function, bool) {
	return it.function, it.Kind == ItemFunction
}

// Class returns the class held by a class item.
func (it Item) Class() (Class, bool) {
	return it.class, it.Kind == ItemClass
}

func (it Item) String() string {
	switch it.Kind {
	case ItemFunction:
		return it.function.String()
	case ItemClass:
		return it.class.String()
	default:
		return "Item(?)"
	}
}
