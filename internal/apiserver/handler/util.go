package handler

import "strconv"

func parseQueryInt(s string) (int, error) {
	return strconv.Atoi(s)
}
