/*
Package operation applies blockpatch patches to files on disk.

	+-------------+
	|   Config    |
	|  (Patches)  |
	+------+------+
	       |
	+------+------+
	|   Resolve   |
	|   (globs)   |
	+------+------+
	       |
	+------+------+
	|    Apply    |
	| read->patch |
	|   ->write   |
	+-------------+

🎯 Purpose:
- Expands each patch's files pattern under the config root
- Groups rules per file so a file is read and written once
- Runs the text.BlockReplacer over each file's content
- Writes back atomically, or renders a diff on dry runs

🔄 Flow:
1. Resolve turns patterns into FileJobs
2. Apply runs the jobs on a Runner (errgroup, bounded)
3. Each job reads the file, applies its rules in order, and writes
   only when every rule found its anchors
4. Check does the locating part of 3 and reports spans instead

⚡ Guarantees:
- A missing anchor never touches the file
- A failed write leaves the original file in place
- Files are independent: an error in one file does not undo another

🔍 Example:

	p, err := operation.New(operation.Options{Config: cfg})
	if err != nil {
		return err
	}
	results, err := p.Apply(ctx)
*/
package operation
