package mines

import "github.com/sirupsen/logrus"

var Log = logrus.New()

func isEdge(x, y, width, height int) bool {
	return x == 0 || y == 0 || x == width-1 || y == height-1
}
