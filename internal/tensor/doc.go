// Package tensor implements generic N-dimensional arrays with NumPy
// semantics: shapes and layouts, owning arrays, strided and gather views
// that alias a shared buffer, broadcasting, and lazy unary, binary, outer
// and reduction expressions evaluated on assignment.
//
// Every realization satisfies Expr[T]; writable ones satisfy Target[T].
// Expressions compute elements on demand and hold their operands, so a
// chain like Add(Mul(a, b), Scalar(1.0)) allocates nothing proportional to
// the array size until Assign, Copy or element access forces it.
package tensor
