// Package title turns words into correctly cased tag values.
//
// Retitler normalizes a title a person has already typed. TagMaker derives a
// title, artist or genre from a safe filename token such as
// "can_we_make_it--just_a_little_bit--harder". Both consult the same
// words.Words dictionary.
package title
