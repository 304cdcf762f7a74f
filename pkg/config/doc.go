/*
Package config loads blockpatch patch files.

	            +-------------+
	            |   Config    |
	            |  (Patches)  |
	            +------+------+
	                   |
	   +--------+------+------+--------+
	   |        |             |        |
	+--+---+ +--+---+     +---+--+ +---+--+
	| YAML | | HCL  |     | JSON | | TOML |
	+------+ +------+     +------+ +------+

🎯 Purpose:
- Reads a patch file and picks a parser from its extension
- Validates every patch and fills in defaults
- Maps files to the block rules that apply to them

🔄 Flow:
1. Load reads the file and hands it to the registered parser
2. Validate checks names, anchors, counts and file patterns
3. Root defaults to the directory of the patch file
4. Patch.Rule converts a patch into a text.BlockRule

🔍 Example:

	cfg, err := config.Load(ctx, ".blockpatch.yaml")
	if err != nil {
		return err
	}

	for _, p := range cfg.Patches {
		fmt.Println(p.Name, p.Files)
	}

A YAML patch file (files may also be a doublestar glob such as
apps/web/{a,b}/case-type-selection.spec.ts):

	patches:
	  - name: case-type-selection heading
	    files: apps/web/case-type-selection.spec.ts
	    start: '  await test.step("2. Ensure text'
	    end: "  });\n"
	    replacement: "  await test.step(\"2. Ensure heading\", async () => {});\n"
*/
package config
