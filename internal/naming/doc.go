// Package naming derives script identifiers from operation types and labels
// and keeps them collision-free.
//
// Callables use CamelCase ("CLIPTextEncode"), variables use snake_case
// ("positive_prompt"). Each namespace is a Table scoped to one transpile
// call; a clash is resolved by appending the smallest free integer from 2
// up ("image", "image2", "image3").
package naming
