package syscall

// BuildTable assembles the canonical syscall table from every family.
// Order doesn't matter for dispatch (ResolveFileTable looks names up
// by name), but it's kept grouped by family for readability, mirroring
// spec.md §4.5's grouping.
func BuildTable() Table {
	var t Table
	t = append(t, primFamily...)
	t = append(t, motionFamily...)
	t = append(t, dissolveFamily...)
	t = append(t, bgmFamily()...)
	t = append(t, seFamily()...)
	t = append(t, threadFamily...)
	t = append(t, timerFamily...)
	t = append(t, textFamily...)
	t = append(t, inputFamily...)
	t = append(t, miscFamily...)
	t = append(t, saveLoadFamily...)
	return t
}
