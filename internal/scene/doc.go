// Package scene aggregates the host scene graph into an ordered list of
// summaries.
//
// A fetch cycle asks the host for its scene count, resolves every scene
// concurrently (handle, then name, then sources) and joins the results. The
// join is all-or-nothing: one failing scene fails the cycle and no summaries
// are returned. Results are written into a slot per index, so the output is in
// ascending index order whatever order the host answers in.
//
// There is no built-in timeout. A scene fetch that never returns stalls the
// cycle unless Options.SceneTimeout or the caller's context bounds it.
package scene
