package db

import (
	"fmt"
	"sync"

	"fortio.org/safecast"

	"dada/internal/ir"
	"dada/internal/source"
)

// entities interns identities to dense handles. Handles are never reused;
// an entity whose definition disappeared simply stops being listed.
type entities struct {
	mu        sync.Mutex
	functions []ir.FunctionKey
	fnIDs     map[ir.FunctionKey]ir.Function
	classes   []ir.ClassKey
	classIDs  map[ir.ClassKey]ir.Class
	variables []source.Word
	varIDs    map[source.Word]ir.Variable
}

func (e *entities) init() {
	e.fnIDs = make(map[ir.FunctionKey]ir.Function)
	e.classIDs = make(map[ir.ClassKey]ir.Class)
	e.varIDs = make(map[source.Word]ir.Variable)
}

func nextID(n int) uint32 {
	id, err := safecast.Conv[uint32](n + 1)
	if err != nil {
		panic(fmt.Errorf("db: entity id overflow: %w", err))
	}
	return id
}

func (e *entities) function(key ir.FunctionKey) ir.Function {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn, ok := e.fnIDs[key]; ok {
		return fn
	}
	fn := ir.NewFunction(nextID(len(e.functions)))
	e.functions = append(e.functions, key)
	e.fnIDs[key] = fn
	return fn
}

func (e *entities) class(key ir.ClassKey) ir.Class {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.classIDs[key]; ok {
		return c
	}
	c := ir.NewClass(nextID(len(e.classes)))
	e.classes = append(e.classes, key)
	e.classIDs[key] = c
	return c
}

func (e *entities) variable(name source.Word) ir.Variable {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.varIDs[name]; ok {
		return v
	}
	v := ir.NewVariable(nextID(len(e.variables)))
	e.variables = append(e.variables, name)
	e.varIDs[name] = v
	return v
}

func (e *entities) functionKey(fn ir.Function) ir.FunctionKey {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.functions[fn.ID()-1]
}

func (e *entities) classKey(c ir.Class) ir.ClassKey {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.classes[c.ID()-1]
}

func (e *entities) variableName(v ir.Variable) source.Word {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.variables[v.ID()-1]
}

// FunctionKey returns the identity of fn.
func (db *Database) FunctionKey(fn ir.Function) ir.FunctionKey { return db.entities.functionKey(fn) }

// FunctionName returns the declared name of fn.
func (db *Database) FunctionName(fn ir.Function) string {
	return db.words.MustLookup(db.entities.functionKey(fn).Name)
}

// ClassName returns the declared name of c.
func (db *Database) ClassName(c ir.Class) string {
	return db.words.MustLookup(db.entities.classKey(c).Name)
}

// Variable interns the variable entity called name.
func (db *Database) Variable(name source.Word) ir.Variable { return db.entities.variable(name) }

// VariableName returns the name of v.
func (db *Database) VariableName(v ir.Variable) string {
	return db.words.MustLookup(db.entities.variableName(v))
}

// LookupFunction finds the first function called name defined in file.
// It does not consult the current item list, so a removed definition is
// still found; use Items for what the file currently defines.
func (db *Database) LookupFunction(file ir.Filename, name string) (ir.Function, bool) {
	key := ir.FunctionKey{File: file, Name: db.words.Intern(name)}
	db.entities.mu.Lock()
	defer db.entities.mu.Unlock()
	fn, ok := db.entities.fnIDs[key]
	return fn, ok
}
