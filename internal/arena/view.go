package arena

// View — окно (Offset, Length) над единственным выделением арены.
// Границы проверяются один раз при создании через Arena.View.
type View struct {
	Offset int
	Length int
}

// End возвращает индекс сразу за последним элементом окна.
func (v View) End() int {
	return v.Offset + v.Length
}
