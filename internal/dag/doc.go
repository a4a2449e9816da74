// Package dag is a small directed graph over string node IDs. The builder
// mirrors a workflow's links into it to prove they form a DAG before any
// traversal starts.
package dag
