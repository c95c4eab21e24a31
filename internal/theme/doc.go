// Package theme turns a color-scheme id and a font-pairing id into CSS.
//
// It also owns the class-naming contract shared with the section generators:
// every section root carries WrapperClass(kind) and StyleClass(kind, id), and
// generators tag heading/body copy with ClassHeading/ClassBody so the font
// override can reach them. Everything here is a pure function of its inputs.
package theme
