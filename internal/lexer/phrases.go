package lexer

// phrase pairs a lower-cased multi-word phrase with the token type it
// produces. Order matters: longer, more specific phrases must appear
// before shorter phrases they contain, since matching stops at the
// first hit and is tried top-to-bottom.
type phrase struct {
	text string
	typ  TokenType
}

// phrases is tried, in order, against the lower-cased remainder of the
// source at the current position. The list is long because Zinc grammar
// leans on fixed multi-word idioms ("is greater than", "the square root
// of") instead of symbolic operators.
var phrases = []phrase{
	{"it is not the case that", IT_IS_NOT_THE_CASE_THAT},
	{"ask the user for a number and store it in", ASK_USER_FOR},
	{"ask the user for a decimal and store it in", ASK_USER_FOR},
	{"ask the user for a letter and store it in", ASK_USER_FOR},
	{"ask the user for text and store it in", ASK_USER_FOR},
	{"the standard input and output", STANDARD_IO},
	{"the standard math functions", STANDARD_MATH},
	{"the string functions", STRING_FUNCTIONS},
	{"the file functions", FILE_FUNCTIONS},
	{"the random functions", RANDOM_FUNCTIONS},
	{"the graphics library", RAYLIB_GRAPHICS},
	{"raylib graphics", RAYLIB_GRAPHICS},
	{"open a window sized", OPEN_WINDOW},
	{"open window sized", OPEN_WINDOW},
	{"close the window", CLOSE_WINDOW},
	{"the window should close", WINDOW_SHOULD_CLOSE},
	{"window should close", WINDOW_SHOULD_CLOSE},
	{"begin drawing", BEGIN_DRAWING},
	{"start drawing", BEGIN_DRAWING},
	{"end drawing", END_DRAWING},
	{"stop drawing", END_DRAWING},
	{"end notes", END_NOTES},
	{"clear the screen with", CLEAR_SCREEN},
	{"clear screen with", CLEAR_SCREEN},
	{"draw a rectangle at", DRAW_RECTANGLE},
	{"draw rectangle at", DRAW_RECTANGLE},
	{"draw text", DRAW_TEXT},
	{"the mouse x position", MOUSE_X},
	{"mouse x", MOUSE_X},
	{"the mouse y position", MOUSE_Y},
	{"mouse y", MOUSE_Y},
	{"the mouse was clicked", MOUSE_PRESSED},
	{"mouse is pressed", MOUSE_PRESSED},
	{"mouse was pressed", MOUSE_PRESSED},
	{"a random number between", RANDOM_NUMBER},
	{"continue with the next iteration", CONTINUE_NEXT},
	{"skip to the next one", SKIP_TO_NEXT},
	{"leave the loop", LEAVE_THE_LOOP},
	{"stop the loop", STOP_THE_LOOP},
	{"stop the program", STOP_PROGRAM},
	{"do the main thing", DO_MAIN},
	{"the absolute value of", ABSOLUTE_VALUE_OF},
	{"the square root of", SQUARE_ROOT_OF},
	{"to the power of", TO_THE_POWER_OF},
	{"the sum of", THE_SUM_OF},
	{"there is another line in", ANOTHER_LINE_IN},
	{"read a line from", READ_LINE_FROM},
	{"failed to open", FAILED_TO_OPEN},
	{"close the file", CLOSE_FILE},
	{"for reading", FOR_READING},
	{"for writing", FOR_WRITING},
	{"the file called", FILE_CALLED},
	{"the result of", RESULT_OF},
	{"the value that", VALUE_AT},
	{"the value of", THE_VALUE_OF},
	{"the value at", VALUE_AT},
	{"the address of", ADDRESS_OF},
	{"points to", POINTS_TO},
	{"allocate space for", ALLOCATE},
	{"free the memory at", FREE},
	{"space for", SPACE_FOR},
	{"and call it", CALLED},
	{"pointer to", POINTER_TO},
	{"list of", LIST_OF},
	{"is greater than", GREATER_THAN},
	{"is less than", LESS_THAN},
	{"is the same as", SAME_AS},
	{"is not equal to", NOT_EQUAL_TO},
	{"not equal to", NOT_EQUAL_TO},
	{"is at least", AT_LEAST},
	{"is at most", AT_MOST},
	{"is between", BETWEEN},
	{"is positive", POSITIVE},
	{"is negative", IS_NEGATIVE},
	{"is zero", IS_ZERO},
	{"is even", IS_EVEN},
	{"is odd", IS_ODD},
	{"is empty", IS_EMPTY},
	{"is not", NOT_EQUAL_TO},
	{"is yes", YES},
	{"is no", NO},
	{"equals yes", YES},
	{"equals no", NO},
	{"yes or no", TYPE_YES_OR_NO},
	{"divided by", DIVIDED_BY},
	{"and then", AND_THEN},
	{"followed by", FOLLOWED_BY},
	{"down to", DOWN_TO},
	{"for each", FOR_EACH},
	{"there is a file called", THERE_IS},
	{"there is a", THERE_IS},
	{"there is an", THERE_IS},
	{"there is", THERE_IS},
	{"which is", WHICH_IS},
	{"which has", HAS},
	{"which opens", OPENS},
	{"equal to", EQUAL_TO},
	{"make equal to", EQUAL_TO},
	{"the first item in", FIRST_ITEM_IN},
	{"first item in", FIRST_ITEM_IN},
	{"the last item in", LAST_ITEM_IN},
	{"last item in", LAST_ITEM_IN},
	{"item number", ITEM_NUMBER},
	{"the length of", LENGTH_OF},
	{"length of", LENGTH_OF},
	{"the size of", SIZE_OF},
	{"how many items are in", HOW_MANY_IN},
	{"add to", ADD_TO_LIST},
	{"remove the last item from", REMOVE_FROM},
	{"element of", ELEMENT_OF},
	{"as having", AS_HAVING},
	{"and return", AND_RETURN},
	{"the character at position", ITEM_NUMBER},
	{"keep doing this while", KEEP_DOING},
	{"get input from the user as", GET_INPUT},
	{"read a number into", READ},
	{"read text into", READ},
	{"print the value of", PRINT},
}

// keywords maps single lower-cased words to their token type. Plural
// forms of type names (numbers, decimals, letters) fold to the same
// type as their singular, matching how "there is a number called x"
// and "there is a list of numbers called xs" both read naturally.
var keywords = map[string]TokenType{
	"include":     INCLUDE,
	"use":         USE,
	"let":         LET,
	"be":          BE,
	"called":      CALLED,
	"is":          IS,
	"number":      TYPE_NUMBER,
	"numbers":     TYPE_NUMBER,
	"decimal":     TYPE_DECIMAL,
	"decimals":    TYPE_DECIMAL,
	"letter":      TYPE_LETTER,
	"letters":     TYPE_LETTER,
	"text":        TYPE_TEXT,
	"boolean":     TYPE_BOOLEAN,
	"nothing":     TYPE_NOTHING,
	"yes":         YES,
	"no":          NO,
	"null":        NULL,
	"change":      CHANGE,
	"set":         SET,
	"now":         NOW,
	"make":        MAKE,
	"to":          TO,
	"add":         ADD,
	"subtract":    SUBTRACT,
	"multiply":    MULTIPLY,
	"divide":      DIVIDE,
	"increase":    INCREASE,
	"decrease":    DECREASE,
	"plus":        PLUS,
	"minus":       MINUS,
	"times":       TIMES,
	"modulo":      MODULO,
	"negative":    NEGATIVE,
	"equals":      EQUALS,
	"contains":    CONTAINS,
	"and":         AND,
	"or":          OR,
	"not":         NOT,
	"if":          IF,
	"then":        THEN,
	"otherwise":   OTHERWISE,
	"end":         END,
	"repeat":      REPEAT,
	"while":       WHILE,
	"from":        FROM,
	"in":          IN,
	"return":      RETURN,
	"say":         SAY,
	"print":       PRINT,
	"show":        SHOW,
	"display":     DISPLAY,
	"containing":  CONTAINING,
	"define":      DEFINE,
	"has":         HAS,
	"a":           A,
	"an":          AN,
	"the":         THE,
	"of":          OF,
	"with":        WITH,
	"note":        NOTE,
	"notes":       NOTES,
	"reminder":    REMINDER,
	"into":        INTO,
	"opens":       OPENS,
	"store":       STORE_IN,
	"by":          TIMES, // "multiply x by 2"
}
