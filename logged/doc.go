// Package logged reports the execution of intercepted calls.
//
// A Reporter wraps a call with an enter message, an exit or error message and
// optional per-signature execution statistics. What is shown for each argument
// and the return value is governed by a per-call-site Config: values are
// rendered only when the sink runs at debug or trace (or when forced), and
// excluded types or positions always fall back to their type name. Nil values
// are always rendered as "null".
//
// Messages use fixed markers:
//
//	>>Find(42,String)>>
//	<<Find: Account<< 12ms
//	<!Find record not found<! 3ms
package logged
