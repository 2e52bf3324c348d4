package intake_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobeaver/intake"
	"github.com/gobeaver/intake/driver/memory"
	"github.com/gobeaver/intake/filename"
	"github.com/gobeaver/intake/filevalidator"
	"github.com/spf13/afero"
)

func ExampleUploader_Upload() {
	ctx := context.Background()

	disk := memory.New()
	_ = afero.WriteFile(disk.Fs(), "/tmp/upload-1", []byte("hello"), 0o644)
	_ = afero.WriteFile(disk.Fs(), "/tmp/upload-2", []byte("hello again"), 0o644)

	u := intake.NewUploader(disk)
	spec := intake.Spec{
		FieldKey:           "notes",
		TargetDir:          "/uploads",
		AllowedExtensions:  []string{"txt"},
		CreateDirIfMissing: true,
	}

	for _, tmp := range []string{"/tmp/upload-1", "/tmp/upload-2"} {
		out := u.Upload(ctx, spec, intake.Submissions{
			"notes": {OriginalName: "My Notes!!.txt", TempPath: tmp},
		})
		s, _ := out.Success()
		fmt.Println(s.FullPath)
	}
	// Output:
	// /uploads/My_Notes.txt
	// /uploads/My_Notes_1.txt
}

func ExampleUploader_Upload_rejected() {
	ctx := context.Background()

	disk := memory.New()
	_ = afero.WriteFile(disk.Fs(), "/tmp/upload", []byte("<?php"), 0o644)

	u := intake.NewUploader(disk)
	spec := intake.Spec{
		FieldKey:           "avatar",
		TargetDir:          "/uploads",
		AllowedExtensions:  filevalidator.ImageExtensions(),
		CreateDirIfMissing: true,
	}

	out := u.Upload(ctx, spec, intake.Submissions{
		"avatar": {OriginalName: "shell.php", TempPath: "/tmp/upload"},
	})
	f, _ := out.Failure()
	fmt.Println(f.Kind)
	// Output:
	// extension_not_allowed
}

func ExampleUploader_UploadBatch() {
	ctx := context.Background()

	disk := memory.New()
	_ = afero.WriteFile(disk.Fs(), "/tmp/a", []byte("a"), 0o644)

	u := intake.NewUploader(disk)
	specs := []intake.Spec{
		{FieldKey: "a", TargetDir: "/uploads", AllowedExtensions: []string{"txt"}, CreateDirIfMissing: true},
		{FieldKey: "b", TargetDir: "/uploads", AllowedExtensions: []string{"txt"}},
		{FieldKey: "c", TargetDir: "/uploads", AllowedExtensions: []string{"txt"}, Required: true},
	}

	res := u.UploadBatch(ctx, specs, intake.Submissions{
		"a": {OriginalName: "a.txt", TempPath: "/tmp/a"},
	})
	for _, o := range res.Outcomes {
		fmt.Printf("%s: %s\n", o.FieldKey(), o.Message())
	}
	fmt.Println("failed:", res.Failed)
	// Output:
	// a: uploaded
	// b: not uploaded
	// c: no file uploaded for key: c
	// failed: 1
}

func ExampleParseSpecs() {
	specs, err := intake.ParseSpecs(strings.NewReader(`
uploads:
  - field: avatar
    target_dir: public/avatars
    allowed_extensions: [".PNG", jpg]
    replace_existing: true
`))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(specs[0].FieldKey, specs[0].AllowedExtensions, specs[0].ReplaceExisting)
	// Output:
	// avatar [.png .jpg] true
}

func ExampleNew() {
	u, err := intake.New(&intake.Config{Driver: "memory", Checksum: "xxhash"})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(u.Disk() != nil)
	// Output:
	// true
}

func Example_sanitize() {
	fmt.Println(filename.Sanitize("My Photo!!.png"))
	fmt.Println(filename.Sanitize("my  report #1!.pdf"))
	fmt.Println(filename.Sanitize("???.txt"))
	// Output:
	// My_Photo.png
	// my_report_1.pdf
	// file.txt
}
